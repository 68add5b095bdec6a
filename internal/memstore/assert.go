package memstore

import (
	"github.com/fekuna/omnipos-storefront/internal/address"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/dashboard"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/user"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
)

var (
	_ postgres.TxManager   = (*Store)(nil)
	_ user.Repository      = (*UserRepository)(nil)
	_ category.Repository  = (*CategoryRepository)(nil)
	_ product.Repository   = (*ProductRepository)(nil)
	_ address.Repository   = (*AddressRepository)(nil)
	_ cart.Repository      = (*CartRepository)(nil)
	_ order.Repository     = (*OrderRepository)(nil)
	_ dashboard.Repository = (*DashboardRepository)(nil)
)
