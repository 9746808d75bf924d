package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

type failingCatalog struct{}

func (failingCatalog) ListTiers(context.Context) ([]domain.Tier, error) {
	return nil, errors.New("connection refused")
}

func TestBuiltinTiersWeights(t *testing.T) {
	want := map[domain.ResourceTier]float64{
		domain.TierLowGPU:    0.6,
		domain.TierMediumGPU: 1.2,
		domain.TierHighGPU:   2.0,
	}
	tiers := BuiltinTiers()
	if len(tiers) != len(want) {
		t.Fatalf("BuiltinTiers() returned %d tiers", len(tiers))
	}
	for _, tier := range tiers {
		if tier.EnergyWeight != want[tier.Label] {
			t.Fatalf("%s weight = %v, expected %v", tier.Label, tier.EnergyWeight, want[tier.Label])
		}
	}
}

func TestStaticReturnsCopy(t *testing.T) {
	s := NewStatic(nil)
	tiers, _ := s.ListTiers(context.Background())
	tiers[0].EnergyWeight = 99

	again, _ := s.ListTiers(context.Background())
	if again[0].EnergyWeight == 99 {
		t.Fatalf("ListTiers() leaked internal slice")
	}
}

func TestFallbackUsesSecondaryOnError(t *testing.T) {
	f := Fallback{Primary: failingCatalog{}, Secondary: NewStatic(nil)}
	tiers, err := f.ListTiers(context.Background())
	if err != nil {
		t.Fatalf("ListTiers() error = %v", err)
	}
	if len(tiers) != 3 {
		t.Fatalf("ListTiers() returned %d tiers, expected built-ins", len(tiers))
	}
}

func TestValidateRejectsOverrides(t *testing.T) {
	cases := map[string][]domain.Tier{
		"weight": {
			{Code: "low", Label: domain.TierLowGPU, EnergyWeight: 0.6},
			{Code: "medium", Label: domain.TierMediumGPU, EnergyWeight: 1.2},
			{Code: "high", Label: domain.TierHighGPU, EnergyWeight: 9},
		},
		"label": {
			{Code: "low", Label: "Tiny GPU", EnergyWeight: 0.6},
			{Code: "medium", Label: domain.TierMediumGPU, EnergyWeight: 1.2},
			{Code: "high", Label: domain.TierHighGPU, EnergyWeight: 2.0},
		},
		"duplicate": {
			{Code: "a", Label: domain.TierHighGPU, EnergyWeight: 2.0},
			{Code: "b", Label: domain.TierHighGPU, EnergyWeight: 2.0},
			{Code: "c", Label: domain.TierLowGPU, EnergyWeight: 0.6},
		},
		"partial":  {{Code: "high", Label: domain.TierHighGPU, EnergyWeight: 2.0}},
		"sentinel": append(BuiltinTiers(), domain.Tier{Code: "none", Label: domain.TierUnselected}),
	}
	for name, tiers := range cases {
		if err := Validate(tiers); !errors.Is(err, ErrCatalogMismatch) {
			t.Fatalf("%s: Validate() error = %v, expected ErrCatalogMismatch", name, err)
		}
	}
}

func TestValidateAcceptsReorderedCodes(t *testing.T) {
	tiers := []domain.Tier{
		{Code: "gpu-xl", Label: domain.TierHighGPU, EnergyWeight: 2.0},
		{Code: "gpu-s", Label: domain.TierLowGPU, EnergyWeight: 0.6},
		{Code: "gpu-m", Label: domain.TierMediumGPU, EnergyWeight: 1.2},
	}
	if err := Validate(tiers); err != nil {
		t.Fatalf("Validate() error = %v, expected nil", err)
	}
	got := Normalize(tiers)
	if got[0].Code != "gpu-xl" || got[1].Label != domain.TierLowGPU {
		t.Fatalf("Normalize() = %+v, expected catalog order kept", got)
	}
}

func TestStaticFallsBackOnConflictingTiers(t *testing.T) {
	s := NewStatic([]domain.Tier{{Code: "high", Label: domain.TierHighGPU, EnergyWeight: 9}})
	tiers, err := s.ListTiers(context.Background())
	if err != nil {
		t.Fatalf("ListTiers() error = %v", err)
	}
	if len(tiers) != 3 {
		t.Fatalf("ListTiers() returned %d tiers, expected built-ins", len(tiers))
	}
	for _, tier := range tiers {
		if tier.Label == domain.TierHighGPU && tier.EnergyWeight != 2.0 {
			t.Fatalf("High GPU weight = %v, expected 2", tier.EnergyWeight)
		}
	}
}

// stubDriver serves canned resource_tiers rows keyed by DSN.
type stubDriver struct{}

var stubScenarios = map[string][][]driver.Value{
	"valid": {
		{"low", "Low GPU", 0.6},
		{"medium", "Medium GPU", 1.2},
		{"high", "High GPU", 2.0},
	},
	"empty": {},
	"conflict": {
		{"high", "High GPU", 9.0},
	},
}

func init() {
	sql.Register("tierstub", stubDriver{})
}

func (stubDriver) Open(dsn string) (driver.Conn, error) {
	rows, ok := stubScenarios[dsn]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", dsn)
	}
	return &stubConn{rows: rows}, nil
}

type stubConn struct {
	rows [][]driver.Value
}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	if !strings.Contains(query, "FROM resource_tiers") {
		return nil, fmt.Errorf("unexpected query %q", query)
	}
	return &stubStmt{rows: c.rows}, nil
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

type stubStmt struct {
	rows [][]driver.Value
}

func (s *stubStmt) Close() error { return nil }

func (s *stubStmt) NumInput() int { return 0 }

func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("exec not supported")
}

func (s *stubStmt) Query([]driver.Value) (driver.Rows, error) {
	return &stubRows{rows: s.rows}, nil
}

type stubRows struct {
	rows [][]driver.Value
	pos  int
}

func (r *stubRows) Columns() []string { return []string{"code", "label", "energy_weight"} }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func openStub(t *testing.T, scenario string) *sqlx.DB {
	t.Helper()
	db, err := sql.Open("tierstub", scenario)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx")
}

func TestTiersListFromTable(t *testing.T) {
	tiers, err := NewTiers(openStub(t, "valid")).ListTiers(context.Background())
	if err != nil {
		t.Fatalf("ListTiers() error = %v", err)
	}
	if len(tiers) != 3 {
		t.Fatalf("ListTiers() returned %d tiers, expected 3", len(tiers))
	}
	if tiers[2].Code != "high" || tiers[2].Label != domain.TierHighGPU || tiers[2].EnergyWeight != 2.0 {
		t.Fatalf("ListTiers()[2] = %+v", tiers[2])
	}
}

func TestTiersEmptyTable(t *testing.T) {
	_, err := NewTiers(openStub(t, "empty")).ListTiers(context.Background())
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("ListTiers() error = %v, expected ErrEmptyCatalog", err)
	}
}

func TestTiersConflictingTable(t *testing.T) {
	repo := NewTiers(openStub(t, "conflict"))
	if _, err := repo.ListTiers(context.Background()); !errors.Is(err, ErrCatalogMismatch) {
		t.Fatalf("ListTiers() error = %v, expected ErrCatalogMismatch", err)
	}

	tiers, err := Fallback{Primary: repo, Secondary: NewStatic(nil)}.ListTiers(context.Background())
	if err != nil {
		t.Fatalf("Fallback.ListTiers() error = %v", err)
	}
	if len(tiers) != 3 {
		t.Fatalf("Fallback.ListTiers() returned %d tiers, expected built-ins", len(tiers))
	}
}
