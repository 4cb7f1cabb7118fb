package domain

// Tables lists the entities persisted by the storefront API database.
// Promo codes and the admin password live only in the local store.
var Tables = []interface{}{
	&Product{},
	&Order{},
}
