package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultColor is the variant tag the sync worker puts on every line item.
const DefaultColor = "Black"

type CartItem struct {
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Color       string
	Quantity    int
}

func (i CartItem) equal(o CartItem) bool {
	return i.ProductID == o.ProductID &&
		i.ProductName == o.ProductName &&
		i.Price.Equal(o.Price) &&
		i.Color == o.Color &&
		i.Quantity == o.Quantity
}

// Cart is keyed by Username. Version increases by one on every commit
// that changes the item set.
type Cart struct {
	Username  string
	Items     []CartItem
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time

	baseline map[int64]CartItem
}

func NewCart(username string, now time.Time) Cart {
	c := Cart{
		Username:  username,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Track()
	return c
}

// Track records the current item set as the committed state that
// Changes diffs against. Repositories call it after loading a cart.
func (c *Cart) Track() {
	c.baseline = make(map[int64]CartItem, len(c.Items))
	for _, it := range c.Items {
		c.baseline[it.ProductID] = it
	}
}

func (c *Cart) Item(productID int64) (CartItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// IncrementQuantity bumps an existing line by one. The price is left alone.
func (c *Cart) IncrementQuantity(productID int64) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items[i].Quantity++
	return nil
}

func (c *Cart) AddItem(item CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidItem
	}
	if c.indexOf(item.ProductID) >= 0 {
		return ErrInvalidItem
	}
	c.Items = append(c.Items, item)
	return nil
}

func (c *Cart) RemoveItem(productID int64) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

type ChangeKind int

const (
	ChangeInsert ChangeKind = iota + 1
	ChangeUpdate
	ChangeDelete
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	}
	return "unknown"
}

type ItemChange struct {
	Kind ChangeKind
	Item CartItem
}

// Changes returns one change per line item that differs from the tracked
// state: inserts and updates in item order, then deletes by product id.
func (c *Cart) Changes() []ItemChange {
	var changes []ItemChange
	seen := make(map[int64]struct{}, len(c.Items))

	for _, it := range c.Items {
		seen[it.ProductID] = struct{}{}
		base, ok := c.baseline[it.ProductID]
		switch {
		case !ok:
			changes = append(changes, ItemChange{Kind: ChangeInsert, Item: it})
		case !base.equal(it):
			changes = append(changes, ItemChange{Kind: ChangeUpdate, Item: it})
		}
	}

	var deleted []CartItem
	for id, it := range c.baseline {
		if _, ok := seen[id]; !ok {
			deleted = append(deleted, it)
		}
	}
	sort.Slice(deleted, func(i, j int) bool { return deleted[i].ProductID < deleted[j].ProductID })
	for _, it := range deleted {
		changes = append(changes, ItemChange{Kind: ChangeDelete, Item: it})
	}

	return changes
}

// CartChangeSet is what a repository commits for one cart.
type CartChangeSet struct {
	Username        string
	ExpectedVersion int
	Changes         []ItemChange
}

func (c *Cart) ChangeSet() CartChangeSet {
	return CartChangeSet{
		Username:        c.Username,
		ExpectedVersion: c.Version,
		Changes:         c.Changes(),
	}
}

type AddItemRequest struct {
	Username     string
	DiscountCode string
	Item         CartItem
}

type AddItemsResult struct {
	Success     bool
	InsertCount int
}
