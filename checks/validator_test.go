package checks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vitrine/models"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeCatalog serves products from a map; a non-nil err simulates an
// unreachable store.
type fakeCatalog struct {
	products map[string]models.Product
	err      error
}

func (f fakeCatalog) Product(_ context.Context, id string) (models.Product, bool, error) {
	if f.err != nil {
		return models.Product{}, false, f.err
	}
	p, ok := f.products[id]
	return p, ok, nil
}

type mergeCall struct {
	orderID string
	fields  bson.M
}

// fakeOrders records Merge calls and returns a canned window count.
type fakeOrders struct {
	merges   []mergeCall
	count    int64
	countErr error

	lastPhone   string
	lastSince   string
	lastExclude string
}

func (f *fakeOrders) Merge(_ context.Context, orderID string, fields bson.M) error {
	f.merges = append(f.merges, mergeCall{orderID: orderID, fields: fields})
	return nil
}

func (f *fakeOrders) CountRecent(_ context.Context, phone, sinceISO, excludeOrderID string) (int64, error) {
	f.lastPhone = phone
	f.lastSince = sinceISO
	f.lastExclude = excludeOrderID
	return f.count, f.countErr
}

func catalogWithP1() fakeCatalog {
	return fakeCatalog{products: map[string]models.Product{
		"P1": {ProductID: "P1", Name: "Clavier", Price: 1000},
	}}
}

func errorsContaining(t *testing.T, fields bson.M, fragment string) {
	t.Helper()
	errs, ok := fields["validationErrors"].([]string)
	if !ok {
		t.Fatalf("expected validationErrors in update, got %v", fields)
	}
	for _, e := range errs {
		if strings.Contains(e, fragment) {
			return
		}
	}
	t.Fatalf("no validation error containing %q in %v", fragment, errs)
}

func TestValidatorCleanOrderStaysPending(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{Catalog: catalogWithP1(), Orders: store}

	v.Run(context.Background(), models.Order{
		OrderID: "o1",
		Items:   []models.OrderItem{{ItemID: "P1", Name: "Clavier", Price: 1000, Quantity: 2}},
		Total:   2000,
		Status:  models.StatusPending,
	})

	if len(store.merges) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(store.merges))
	}
	fields := store.merges[0].fields
	if fields["validated"] != true {
		t.Fatalf("expected validated=true, got %v", fields)
	}
	if _, hasStatus := fields["status"]; hasStatus {
		t.Fatalf("clean order must not change status, got %v", fields)
	}
	if _, hasTS := fields["validatedAt"]; !hasTS {
		t.Fatalf("expected validatedAt, got %v", fields)
	}
}

func TestValidatorPriceMismatchCancels(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{Catalog: catalogWithP1(), Orders: store}

	v.Run(context.Background(), models.Order{
		OrderID: "o2",
		Items:   []models.OrderItem{{ItemID: "P1", Name: "Clavier", Price: 900, Quantity: 2}},
		Total:   1800,
	})

	if len(store.merges) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(store.merges))
	}
	fields := store.merges[0].fields
	if fields["status"] != models.StatusCanceled {
		t.Fatalf("expected canceled status, got %v", fields)
	}
	errorsContaining(t, fields, "Price mismatch for Clavier: submitted 900 DA, actual 1000 DA")
	// Recomputed total uses the catalog price (2000), so the claimed 1800
	// also trips the total check.
	errorsContaining(t, fields, "Total mismatch: submitted 1800 DA, calculated 2000 DA")
}

func TestValidatorMissingProductExcludedFromTotal(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{Catalog: catalogWithP1(), Orders: store}

	// The unknown item contributes nothing to the recomputed total, so the
	// claimed total of the known item alone must still line up.
	v.Run(context.Background(), models.Order{
		OrderID: "o3",
		Items: []models.OrderItem{
			{ItemID: "P1", Name: "Clavier", Price: 1000, Quantity: 2},
			{ItemID: "PX", Name: "Fantome", Price: 50, Quantity: 3},
		},
		Total: 2000,
	})

	fields := store.merges[0].fields
	if fields["status"] != models.StatusCanceled {
		t.Fatalf("expected canceled status, got %v", fields)
	}
	errorsContaining(t, fields, "Product PX not found")
	errs := fields["validationErrors"].([]string)
	for _, e := range errs {
		if strings.Contains(e, "Total mismatch") {
			t.Fatalf("missing product must not cause a total mismatch, got %v", errs)
		}
	}
}

func TestValidatorSuspiciousQuantityStillCounts(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{Catalog: catalogWithP1(), Orders: store}

	// 101 units at the right price and the matching total: the only problem
	// recorded is the quantity itself.
	v.Run(context.Background(), models.Order{
		OrderID: "o4",
		Items:   []models.OrderItem{{ItemID: "P1", Name: "Clavier", Price: 1000, Quantity: 101}},
		Total:   101000,
	})

	fields := store.merges[0].fields
	if fields["status"] != models.StatusCanceled {
		t.Fatalf("expected canceled status, got %v", fields)
	}
	errs := fields["validationErrors"].([]string)
	if len(errs) != 1 {
		t.Fatalf("expected only the quantity error, got %v", errs)
	}
	errorsContaining(t, fields, "Suspicious quantity for Clavier: 101")
}

func TestValidatorQuantityAtLimitPasses(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{Catalog: catalogWithP1(), Orders: store}

	v.Run(context.Background(), models.Order{
		OrderID: "o5",
		Items:   []models.OrderItem{{ItemID: "P1", Name: "Clavier", Price: 1000, Quantity: 100}},
		Total:   100000,
	})

	fields := store.merges[0].fields
	if fields["validated"] != true {
		t.Fatalf("quantity 100 is still sane, got %v", fields)
	}
}

func TestValidatorToleranceAbsorbsRoundingNoise(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{Catalog: catalogWithP1(), Orders: store}

	v.Run(context.Background(), models.Order{
		OrderID: "o6",
		Items:   []models.OrderItem{{ItemID: "P1", Name: "Clavier", Price: 1000.005, Quantity: 1}},
		Total:   999.995,
	})

	fields := store.merges[0].fields
	if fields["validated"] != true {
		t.Fatalf("differences within 0.01 must validate, got %v", fields)
	}
}

func TestValidatorStoreFailureFlagsWithoutCanceling(t *testing.T) {
	store := &fakeOrders{}
	v := &PriceValidator{
		Catalog: fakeCatalog{err: errors.New("catalog unreachable")},
		Orders:  store,
	}

	v.Run(context.Background(), models.Order{
		OrderID: "o7",
		Items:   []models.OrderItem{{ItemID: "P1", Name: "Clavier", Price: 1000, Quantity: 1}},
		Total:   1000,
	})

	if len(store.merges) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(store.merges))
	}
	fields := store.merges[0].fields
	if fields["validationError"] != "catalog unreachable" {
		t.Fatalf("expected validationError, got %v", fields)
	}
	if _, hasStatus := fields["status"]; hasStatus {
		t.Fatalf("infrastructure failure must never cancel, got %v", fields)
	}
	if _, hasValidated := fields["validated"]; hasValidated {
		t.Fatalf("infrastructure failure must not mark validated, got %v", fields)
	}
}
