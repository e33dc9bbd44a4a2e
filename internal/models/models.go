// Package models provides canonical type definitions for storefront API
// entities. These types are used throughout the store layer and CLI for
// API requests and responses.
package models

// Owner is the shop-owner reference embedded in a shop.
type Owner struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// ShopTheme holds the storefront theme selection and palette overrides.
type ShopTheme struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
}

// Shop represents a merchant storefront.
type Shop struct {
	ID           string     `json:"id"`
	ShopURL      string     `json:"shopUrl"`
	BusinessName string     `json:"businessName"`
	District     string     `json:"district,omitempty"`
	Province     string     `json:"province,omitempty"`
	Description  string     `json:"description,omitempty"`
	LogoURL      string     `json:"logoUrl,omitempty"`
	Owner        Owner      `json:"owner"`
	Theme        *ShopTheme `json:"theme,omitempty"`
	CreatedAt    string     `json:"createdAt,omitempty"`
}

// ShopInput is the payload for creating a shop.
type ShopInput struct {
	ShopURL      string `json:"shopUrl"`
	BusinessName string `json:"businessName"`
	District     string `json:"district"`
	Province     string `json:"province"`
}

// Category represents a product category within a shop.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	BannerURL   string `json:"bannerUrl,omitempty"`
	Active      bool   `json:"active"`
	ShopID      string `json:"shopId"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// CategoryInput is the create/update payload for a category. ShopID is
// filled in by the store from the current shop scope.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	BannerURL   string `json:"bannerUrl,omitempty"`
	Active      bool   `json:"active"`
	ShopID      string `json:"shopId,omitempty"`
}

// Product represents a sellable item.
type Product struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	DiscountPrice      float64  `json:"discountPrice,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Stock              int      `json:"stock"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	Images             []string `json:"images,omitempty"`
	Active             bool     `json:"active"`
	CreatedAt          string   `json:"createdAt,omitempty"`
	UpdatedAt          string   `json:"updatedAt,omitempty"`
	ShopID             string   `json:"shopId"`
	CategoryID         string   `json:"categoryId"`

	// Simple variant support: VariantData is a JSON document of
	// {variants: [{name, values}]} when HasVariants is set.
	HasVariants bool    `json:"hasVariants"`
	VariantData *string `json:"variantData,omitempty"`
}

// ProductInput is the create/update payload for a product. ShopID is
// filled in by the store from the current shop scope.
type ProductInput struct {
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	DiscountPrice      float64  `json:"discountPrice,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Stock              int      `json:"stock"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	Images             []string `json:"images"`
	Active             bool     `json:"active"`
	CategoryID         string   `json:"categoryId"`
	HasVariants        bool     `json:"hasVariants"`
	VariantData        *string  `json:"variantData"`
	ShopID             string   `json:"shopId,omitempty"`
}

// ShippingAddress is the delivery destination attached to an order.
type ShippingAddress struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Country  string `json:"country"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID          string   `json:"productId"`
	ProductName        string   `json:"productName"`
	ProductImage       string   `json:"productImage,omitempty"`
	Quantity           int      `json:"quantity"`
	UnitPrice          float64  `json:"unitPrice"`
	TotalPrice         float64  `json:"totalPrice"`
	DiscountPrice      *float64 `json:"discountPrice,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Variant            *string  `json:"variant,omitempty"`
}

// Order represents a placed order as seen from the merchant dashboard.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	CustomerName    string          `json:"customerName"`
	Items           []OrderItem     `json:"items"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          string          `json:"status"`
	Total           float64         `json:"total"`
	OriginalTotal   *float64        `json:"originalTotal,omitempty"`
	DeliveryFee     float64         `json:"deliveryFee"`
	Channel         string          `json:"channel,omitempty"`
	ShopID          string          `json:"shopId"`
	ShopName        string          `json:"shopName,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// OrderRequest is the checkout payload sent by the storefront.
type OrderRequest struct {
	ShopID          string          `json:"shopId"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"deliveryFee"`
	Total           float64         `json:"total"`
}

// OrderConfirmation is the server's acknowledgment of a placed order.
type OrderConfirmation struct {
	ID            string  `json:"id"`
	OrderNumber   string  `json:"orderNumber"`
	Status        string  `json:"status"`
	Total         float64 `json:"total"`
	CreatedAt     string  `json:"createdAt"`
	PaymentMethod string  `json:"paymentMethod"`
}

// CartItem is a line in the customer's cart, denormalized with product
// and shop display fields.
type CartItem struct {
	ID                 string   `json:"id"`
	ProductID          string   `json:"productId"`
	ProductName        string   `json:"productName"`
	ProductImage       string   `json:"productImage,omitempty"`
	ProductImages      []string `json:"productImages,omitempty"`
	Price              float64  `json:"price"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Quantity           int      `json:"quantity"`
	UnitPrice          float64  `json:"unitPrice"`
	TotalPrice         float64  `json:"totalPrice"`
	SelectedVariant    *string  `json:"selectedVariant,omitempty"`
	ShopID             string   `json:"shopId"`
	ShopName           string   `json:"shopName,omitempty"`
	StockQuantity      int      `json:"stockQuantity"`
	CreatedAt          string   `json:"createdAt,omitempty"`
}

// CartSummary is the cart's aggregate count and amount.
type CartSummary struct {
	TotalItems  int     `json:"totalItems"`
	TotalAmount float64 `json:"totalAmount"`
}

// WishlistItem is a saved product on the customer's wishlist.
type WishlistItem struct {
	ID                 string   `json:"id"`
	ProductID          string   `json:"productId"`
	ProductName        string   `json:"productName"`
	ProductImage       string   `json:"productImage,omitempty"`
	ProductImages      []string `json:"productImages,omitempty"`
	Price              float64  `json:"price"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Description        string   `json:"description,omitempty"`
	ShopID             string   `json:"shopId"`
	ShopName           string   `json:"shopName,omitempty"`
	StockQuantity      int      `json:"stockQuantity"`
	Category           string   `json:"category,omitempty"`
	BrandName          string   `json:"brandName,omitempty"`
	CreatedAt          string   `json:"createdAt,omitempty"`
}

// PaymentInitRequest initiates a gateway payment for a placed order.
// ShopID and PaymentMethod travel in the URL path, not the body.
type PaymentInitRequest struct {
	ShopID        string `json:"-"`
	PaymentMethod string `json:"-"`
	OrderID       string `json:"orderId"`
	AmountMinor   int64  `json:"amountMinor"`
	ReturnURL     string `json:"returnUrl"`
	FailureURL    string `json:"failureUrl"`
}

// PaymentConfigSummary is a gateway config row without credentials.
type PaymentConfigSummary struct {
	ID            string `json:"id"`
	ShopID        string `json:"shopId"`
	PaymentMethod string `json:"paymentMethod"`
	DisplayName   string `json:"displayName,omitempty"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// PaymentConfig is a gateway config detail with masked credentials.
type PaymentConfig struct {
	PaymentConfigSummary
	CredentialsMask map[string]string `json:"credentialsMask,omitempty"`
}

// PaymentConfigInput creates or updates a gateway config. Credentials are
// write-only; the server returns only masked values.
type PaymentConfigInput struct {
	ShopID        string            `json:"shopId,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	DisplayName   string            `json:"displayName,omitempty"`
	Credentials   map[string]string `json:"credentials,omitempty"`
	Active        *bool             `json:"active,omitempty"`
}

// SocialAccount holds a shop's social and support links.
type SocialAccount struct {
	ID           string `json:"id,omitempty"`
	ShopID       string `json:"shopId"`
	Facebook     string `json:"facebook,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
	TikTok       string `json:"tiktok,omitempty"`
	WhatsApp     string `json:"whatsapp,omitempty"`
	SupportEmail string `json:"supportEmail,omitempty"`
	SupportPhone string `json:"supportPhone,omitempty"`
}

// Customer is the storefront-side authenticated user.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Audience is an aggregate row of a shop's customers.
type Audience struct {
	CustomerID  string  `json:"customerId"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TotalOrders int     `json:"totalOrders"`
	TotalSpent  float64 `json:"totalSpent"`
	JoinedAt    string  `json:"joinedAt,omitempty"`
}

// FollowedShop is a shop the customer follows.
type FollowedShop struct {
	ShopID     string `json:"shopId"`
	ShopName   string `json:"shopName,omitempty"`
	FollowedAt string `json:"followedAt,omitempty"`
}
