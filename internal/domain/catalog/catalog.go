// Package catalog declares the record kinds of the store front: products,
// orders and their items, users.
package catalog

import (
	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/schema"
	"github.com/kailas-cloud/docgate/internal/domain/schema/field"
)

// Record types.
const (
	RecordProduct   domain.RecordType = "Product"
	RecordOrder     domain.RecordType = "Order"
	RecordOrderItem domain.RecordType = "OrderItem"
	RecordUser      domain.RecordType = "User"
)

// DefaultOrderStatus is stored when an order arrives without a status.
const DefaultOrderStatus = "pending"

// ProductSchema describes the products collection.
func ProductSchema() schema.Schema {
	return schema.MustNew(RecordProduct, "Products collection",
		field.MustNew("title", field.String, field.Required(), field.Searchable(), field.Unique(),
			field.Describe("Product title")),
		field.MustNew("description", field.String, field.Searchable(),
			field.Describe("Product description")),
		field.MustNew("price", field.Number, field.Required(), field.Min(0),
			field.Describe("Price in dollars")),
		field.MustNew("category", field.String, field.Required(), field.Filterable(),
			field.Describe("Product category")),
		field.MustNew("in_stock", field.Boolean, field.Default(true),
			field.Describe("Whether product is in stock")),
		field.MustNew("image", field.String, field.Describe("Image URL")),
		field.MustNew("protein_grams", field.Integer, field.Min(0),
			field.Describe("Protein per serving in grams")),
		field.MustNew("calories", field.Integer, field.Min(0),
			field.Describe("Calories per serving")),
		field.MustNew("tags", field.StringList, field.Searchable(),
			field.Describe("Searchable tags")),
	)
}

// OrderItemSchema describes a line of an order. It is only stored nested
// inside orders.
func OrderItemSchema() schema.Schema {
	return schema.MustNew(RecordOrderItem, "Order line",
		field.MustNew("product_id", field.String, field.Required(),
			field.Describe("Referenced product id")),
		field.MustNew("title", field.String, field.Required(),
			field.Describe("Snapshot of product title")),
		field.MustNew("price", field.Number, field.Required(), field.Min(0),
			field.Describe("Unit price at time of order")),
		field.MustNew("quantity", field.Integer, field.Required(), field.Min(1),
			field.Describe("Quantity ordered")),
	)
}

// OrderSchema describes the orders collection.
func OrderSchema() schema.Schema {
	return schema.MustNew(RecordOrder, "Orders collection",
		field.MustNew("customer_name", field.String, field.Required()),
		field.MustNew("customer_email", field.String, field.Required(), field.Filterable()),
		field.MustNew("customer_address", field.String, field.Required()),
		field.MustNew("items", field.RecordList, field.Of(string(RecordOrderItem)),
			field.Required(), field.MinItems(1)),
		field.MustNew("subtotal", field.Number, field.Required(), field.Min(0)),
		field.MustNew("tax", field.Number, field.Required(), field.Min(0)),
		field.MustNew("total", field.Number, field.Required(), field.Min(0)),
		field.MustNew("status", field.String, field.Default(DefaultOrderStatus), field.Filterable(),
			field.Describe("Order status")),
	)
}

// UserSchema describes the users collection.
func UserSchema() schema.Schema {
	return schema.MustNew(RecordUser, "Users collection",
		field.MustNew("name", field.String, field.Required(), field.Describe("Full name")),
		field.MustNew("email", field.String, field.Required(), field.Filterable(),
			field.Describe("Email address")),
		field.MustNew("address", field.String, field.Required(), field.Describe("Address")),
		field.MustNew("age", field.Integer, field.Min(0), field.Max(120), field.Describe("Age in years")),
		field.MustNew("is_active", field.Boolean, field.Default(true),
			field.Describe("Whether user is active")),
	)
}

// NewRegistry returns a registry holding every catalog record kind.
func NewRegistry() *schema.Registry {
	return schema.NewRegistry().MustRegister(
		ProductSchema(),
		OrderItemSchema(),
		OrderSchema(),
		UserSchema(),
	)
}
