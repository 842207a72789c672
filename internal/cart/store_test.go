package cart_test

import (
	"sync"
	"testing"

	"github.com/msomdec/shopfront/internal/cart"
	"github.com/msomdec/shopfront/internal/domain"
	"github.com/shopspring/decimal"
)

func product(id, name, price string) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func TestAddItem_SameProductIncrementsQuantity(t *testing.T) {
	for _, calls := range []int{1, 2, 5, 40} {
		c := cart.New()
		for range calls {
			c.AddItem(product("1", "Widget", "29.99"))
		}

		items := c.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 line item, got %d", len(items))
		}
		if items[0].Quantity != calls {
			t.Fatalf("expected quantity %d, got %d", calls, items[0].Quantity)
		}
	}
}

func TestAddItem_KeepsOriginalNameAndPrice(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))
	c.AddItem(product("1", "Renamed", "1.00"))

	li := c.Items()[0]
	if li.Name != "Widget" || !li.Price.Equal(decimal.RequireFromString("29.99")) {
		t.Fatalf("expected original name and price, got %q %s", li.Name, li.Price)
	}
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	c := cart.New()
	c.AddItem(product("b", "B", "1"))
	c.AddItem(product("a", "A", "1"))
	c.AddItem(product("b", "B", "1"))

	items := c.Items()
	if items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("expected order [b a], got [%s %s]", items[0].ID, items[1].ID)
	}
}

func TestTotal_ExactDecimal(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))
	c.AddItem(product("2", "Gadget", "49.99"))

	want := decimal.RequireFromString("79.98")
	if got := c.Total(); !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
}

func TestTotal_MultipliesQuantity(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "0.10"))
	c.UpdateQuantity("1", 3)

	want := decimal.RequireFromString("0.30")
	if got := c.Total(); !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	if got := cart.New().Total(); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestItemCount_CountsUnits(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))
	c.AddItem(product("1", "Widget", "29.99"))
	c.AddItem(product("2", "Gadget", "49.99"))

	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected 3 units, got %d", got)
	}
	if got := c.Len(); got != 2 {
		t.Fatalf("expected 2 products, got %d", got)
	}
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		present bool
	}{
		{"positive sets exactly", 7, true},
		{"zero removes", 0, false},
		{"negative removes", -3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cart.New()
			c.AddItem(product("1", "Widget", "29.99"))
			c.AddItem(product("1", "Widget", "29.99"))

			c.UpdateQuantity("1", tc.qty)

			items := c.Items()
			if !tc.present {
				if len(items) != 0 {
					t.Fatalf("expected item removed, got %+v", items)
				}
				return
			}
			if len(items) != 1 || items[0].Quantity != tc.qty {
				t.Fatalf("expected quantity %d, got %+v", tc.qty, items)
			}
		})
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))

	c.UpdateQuantity("missing", 5)
	c.UpdateQuantity("missing", 0)

	if c.ItemCount() != 1 || c.Len() != 1 {
		t.Fatalf("expected cart unchanged, got %+v", c.Items())
	}
}

func TestRemoveItem(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))
	c.AddItem(product("2", "Gadget", "49.99"))

	c.RemoveItem("1")
	c.RemoveItem("missing")

	items := c.Items()
	if len(items) != 1 || items[0].ID != "2" {
		t.Fatalf("expected only item 2, got %+v", items)
	}
}

func TestClear(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))
	c.AddItem(product("2", "Gadget", "49.99"))
	c.UpdateQuantity("2", 4)

	c.Clear()

	if !c.Total().IsZero() {
		t.Fatalf("expected total 0, got %s", c.Total())
	}
	if c.ItemCount() != 0 {
		t.Fatalf("expected count 0, got %d", c.ItemCount())
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := cart.New()
	c.AddItem(product("1", "Widget", "29.99"))

	c.Items()[0].Quantity = 99

	if c.ItemCount() != 1 {
		t.Fatalf("expected stored quantity unchanged, got %d", c.ItemCount())
	}
}

func TestConcurrentAdds(t *testing.T) {
	c := cart.New()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(product("1", "Widget", "1.00"))
		}()
	}
	wg.Wait()

	if c.ItemCount() != 50 {
		t.Fatalf("expected 50 units, got %d", c.ItemCount())
	}
}
