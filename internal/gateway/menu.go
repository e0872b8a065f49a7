package gateway

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kusina/kiosk/internal/domain/catalog"
	"github.com/kusina/kiosk/internal/domain/order"
)

const (
	menuItemsPath      = "/api/menu/items/"
	menuCategoriesPath = "/api/menu/categories/"
)

// Menu is the full storefront catalog.
type Menu struct {
	Items      []catalog.Item
	Categories []catalog.Category
}

// FetchMenu loads items and categories concurrently. Either request failing
// fails the whole fetch; the storefront cannot render a partial catalog.
func (c *Client) FetchMenu(ctx context.Context) (*Menu, error) {
	var menu Menu

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.fetchItems(ctx)
		if err != nil {
			return errors.Wrap(err, "fetch items")
		}
		menu.Items = items
		return nil
	})
	g.Go(func() error {
		categories, err := c.fetchCategories(ctx)
		if err != nil {
			return errors.Wrap(err, "fetch categories")
		}
		menu.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &menu, nil
}

// Ping verifies the backend is reachable by fetching the category list.
// Used as a readiness check.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, menuCategoriesPath)
	return err
}

func (c *Client) fetchItems(ctx context.Context) ([]catalog.Item, error) {
	body, err := c.get(ctx, menuItemsPath)
	if err != nil {
		return nil, err
	}
	return decodeItems(body)
}

func (c *Client) fetchCategories(ctx context.Context) ([]catalog.Category, error) {
	body, err := c.get(ctx, menuCategoriesPath)
	if err != nil {
		return nil, err
	}
	return decodeCategories(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	// Catalog reads share the submission taxonomy: a backend that cannot be
	// reached or answers with a non-200 surfaces as unreachable, not as an
	// internal error.
	status, body, err := c.do(req)
	if err != nil {
		return nil, errors.Wrap(order.ErrGatewayUnreachable, err.Error())
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(order.ErrGatewayUnreachable, "unexpected status %d", status)
	}
	return body, nil
}

func decodeItems(body []byte) ([]catalog.Item, error) {
	var items []catalog.Item
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		item, err := decodeItem(d)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode items")
	}
	return items, nil
}

func decodeItem(d *jx.Decoder) (catalog.Item, error) {
	var item catalog.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := decodeStringOrNumber(d)
			if err != nil {
				return err
			}
			item.ID = id
		case "name":
			s, err := d.Str()
			if err != nil {
				return err
			}
			item.Name = s
		case "is_available":
			b, err := d.Bool()
			if err != nil {
				return err
			}
			item.Available = b
		case "is_fully_out_of_stock":
			b, err := d.Bool()
			if err != nil {
				return err
			}
			item.FullyOutOfStock = b
		case "category":
			id, err := decodeStringOrNumber(d)
			if err != nil {
				return err
			}
			item.Category = id
		case "image":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			item.Image = s
		case "variations":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := decodeVariation(d)
				if err != nil {
					return err
				}
				item.Variations = append(item.Variations, v)
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return catalog.Item{}, errors.Wrap(err, "decode item")
	}
	return item, nil
}

func decodeVariation(d *jx.Decoder) (catalog.Variation, error) {
	v := catalog.Variation{Stock: catalog.StockUnlimited}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := decodeStringOrNumber(d)
			if err != nil {
				return err
			}
			v.ID = id
		case "size_name":
			s, err := d.Str()
			if err != nil {
				return err
			}
			v.Label = s
		case "price":
			p, err := decodePrice(d)
			if err != nil {
				return err
			}
			v.Price = p
		case "stock_level":
			// null means the backend does not track stock for this variation.
			if d.Next() == jx.Null {
				v.Stock = catalog.StockUnlimited
				return d.Null()
			}
			n, err := d.Int()
			if err != nil {
				return err
			}
			v.Stock = n
		case "is_available":
			b, err := d.Bool()
			if err != nil {
				return err
			}
			v.Available = b
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return catalog.Variation{}, errors.Wrap(err, "decode variation")
	}
	return v, nil
}

// decodePrice accepts both wire encodings the backend uses for money:
// a quoted decimal string or a bare JSON number.
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	raw, err := decodeStringOrNumber(d)
	if err != nil {
		return decimal.Decimal{}, err
	}
	p, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "parse price %q", raw)
	}
	return p, nil
}

func decodeCategories(body []byte) ([]catalog.Category, error) {
	var categories []catalog.Category
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		var c catalog.Category
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				id, err := decodeStringOrNumber(d)
				if err != nil {
					return err
				}
				c.ID = id
			case "name":
				s, err := d.Str()
				if err != nil {
					return err
				}
				c.Name = s
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}
