package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/docgate/internal/domain"
)

// Product is the typed form of a product record. Pointer fields are omitted
// when nil so the schema default applies.
type Product struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	InStock      *bool    `json:"in_stock,omitempty"`
	Image        string   `json:"image,omitempty"`
	ProteinGrams *int     `json:"protein_grams,omitempty"`
	Calories     *int     `json:"calories,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// OrderItem is the typed form of an order line.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the typed form of an order record.
type Order struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	Total           float64     `json:"total"`
	Status          string      `json:"status,omitempty"`
}

// User is the typed form of a user record.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Age      *int   `json:"age,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Ptr returns a pointer to v, for the optional record fields.
func Ptr[T any](v T) *T { return &v }

// ToFields converts a typed record into its JSON-shaped field mapping.
func ToFields(record any) (domain.Fields, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var f domain.Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal record fields: %w", err)
	}
	return f, nil
}

// FromFields decodes a field mapping into a typed record.
func FromFields(f domain.Fields, dst any) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", dst, err)
	}
	return nil
}

// SampleProducts returns the products inserted by seeding.
func SampleProducts() []Product {
	return []Product{
		{
			Title:        "Protein Pizza (100g Protein)",
			Description:  "Stone-baked high-protein pizza with 100g protein per pie. Crispy crust, low-carb.",
			Price:        14.99,
			Category:     "food",
			InStock:      Ptr(true),
			Image:        "https://images.unsplash.com/photo-1542281286-9e0a16bb7366",
			ProteinGrams: Ptr(100),
			Calories:     Ptr(980),
			Tags:         []string{"pizza", "high-protein", "meal"},
		},
		{
			Title:        "Whey Protein Powder (2lb)",
			Description:  "Ultra-filtered whey with 24g protein per scoop. Mixes instantly.",
			Price:        29.99,
			Category:     "powder",
			InStock:      Ptr(true),
			Image:        "https://images.unsplash.com/photo-1517673400267-0251440c45dc",
			ProteinGrams: Ptr(24),
			Calories:     Ptr(120),
			Tags:         []string{"powder", "whey", "shake"},
		},
		{
			Title:        "Vegan Protein Blend (2lb)",
			Description:  "Pea + rice protein for a complete amino acid profile.",
			Price:        32.99,
			Category:     "powder",
			InStock:      Ptr(true),
			Image:        "https://images.unsplash.com/photo-1517957754645-708b06a1bbb2",
			ProteinGrams: Ptr(22),
			Calories:     Ptr(110),
			Tags:         []string{"vegan", "powder"},
		},
		{
			Title:        "Protein Cookies (12-pack)",
			Description:  "Soft-baked cookies with 16g protein per cookie.",
			Price:        19.99,
			Category:     "snack",
			InStock:      Ptr(true),
			Image:        "https://images.unsplash.com/photo-1547414362-527f27b7b797",
			ProteinGrams: Ptr(16),
			Calories:     Ptr(220),
			Tags:         []string{"snack", "cookie"},
		},
	}
}
