package inventorystub

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	inventoryclient "github.com/Apurer/rocketshoes-cart/internal/clients/http/inventory"
)

//go:embed catalog.json
var seedCatalog []byte

type catalogFile struct {
	Products []inventoryclient.ProductPayload `json:"products"`
	Stock    []inventoryclient.StockPayload   `json:"stock"`
}

// Catalog is the mutable product and stock table served by the stub.
type Catalog struct {
	mu       sync.RWMutex
	products map[int64]inventoryclient.ProductPayload
	stock    map[int64]int
}

// LoadCatalog builds a catalog from the embedded seed data.
func LoadCatalog() (*Catalog, error) {
	c := &Catalog{}
	if err := c.Reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset restores the embedded seed data.
func (c *Catalog) Reset() error {
	var file catalogFile
	if err := json.Unmarshal(seedCatalog, &file); err != nil {
		return fmt.Errorf("decode seed catalog: %w", err)
	}
	products := make(map[int64]inventoryclient.ProductPayload, len(file.Products))
	for _, p := range file.Products {
		products[p.ID] = p
	}
	stock := make(map[int64]int, len(file.Stock))
	for _, s := range file.Stock {
		if s.Amount != nil {
			stock[s.ID] = *s.Amount
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.stock = stock
	return nil
}

// Clear empties the catalog.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = map[int64]inventoryclient.ProductPayload{}
	c.stock = map[int64]int{}
}

// Put adds or replaces a product and its stock.
func (c *Catalog) Put(product inventoryclient.ProductPayload, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
	c.stock[product.ID] = amount
}

func (c *Catalog) Product(id int64) (inventoryclient.ProductPayload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p, ok
}

func (c *Catalog) Stock(id int64) (inventoryclient.StockPayload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	amount, ok := c.stock[id]
	return inventoryclient.NewStockPayload(id, amount), ok
}

// Products lists every product ordered by id.
func (c *Catalog) Products() []inventoryclient.ProductPayload {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]inventoryclient.ProductPayload, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// StockLevels lists every stock entry ordered by id.
func (c *Catalog) StockLevels() []inventoryclient.StockPayload {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]inventoryclient.StockPayload, 0, len(c.stock))
	for id, amount := range c.stock {
		out = append(out, inventoryclient.NewStockPayload(id, amount))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
