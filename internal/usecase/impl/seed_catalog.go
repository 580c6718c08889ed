package impl

import (
	"net/url"
	"strconv"
	"time"

	"emart/internal/domain/entity"
)

var seedCategories = []string{"Clothing", "Accessories", "Home Decor", "Stationery", "Food & Drinks"} //nolint:gochecknoglobals

type seedProduct struct {
	name          string
	description   string
	price         float64
	originalPrice float64
	stock         int
	category      string
	colors        []string
	sizes         []string
	hint          string
}

//nolint:gochecknoglobals
var seedProductData = []seedProduct{
	{
		name:          "Dhaka Topi",
		description:   "Traditional hand-woven Dhaka cap from Palpa.",
		price:         850,
		originalPrice: 1000,
		stock:         25,
		category:      "Clothing",
		colors:        []string{"#8B0000", "#1F3A93"},
		sizes:         []string{"S", "M", "L"},
		hint:          "nepali cap",
	},
	{
		name:        "Pashmina Shawl",
		description: "Soft cashmere shawl woven in Kathmandu.",
		price:       4500,
		stock:       12,
		category:    "Clothing",
		colors:      []string{"#F5F5DC", "#800020", "#2F4F4F"},
		hint:        "pashmina shawl",
	},
	{
		name:          "Singing Bowl",
		description:   "Hand-hammered seven metal singing bowl with striker and cushion.",
		price:         3200,
		originalPrice: 3800,
		stock:         8,
		category:      "Home Decor",
		hint:          "singing bowl",
	},
	{
		name:        "Lokta Paper Journal",
		description: "Notebook bound with handmade lokta bark paper.",
		price:       600,
		stock:       40,
		category:    "Stationery",
		colors:      []string{"#C19A6B", "#556B2F"},
		hint:        "paper journal",
	},
	{
		name:        "Ilam Black Tea",
		description: "Orthodox black tea from the hills of Ilam, 250g.",
		price:       450,
		stock:       60,
		category:    "Food & Drinks",
		hint:        "tea leaves",
	},
	{
		name:        "Prayer Flag Set",
		description: "Five-color cotton prayer flags, 25 flags per string.",
		price:       350,
		stock:       0,
		category:    "Accessories",
		hint:        "prayer flags",
	},
}

// seedProducts builds the default catalog with consecutive millisecond ids.
func seedProducts(now time.Time) []*entity.Product {
	base := now.UnixMilli()
	products := make([]*entity.Product, 0, len(seedProductData))
	for i, data := range seedProductData {
		var original *float64
		if data.originalPrice > 0 {
			original = &data.originalPrice
		}

		var images [entity.ProductImageCount]entity.ProductImage
		for j := range images {
			images[j] = entity.ProductImage{
				URL:  "https://placehold.co/600x600.png?text=" + url.QueryEscape(data.name+" "+strconv.Itoa(j+1)),
				Alt:  data.name,
				Hint: data.hint,
			}
		}

		products = append(products, entity.NewProduct(entity.Product{
			ID:            strconv.FormatInt(base+int64(i), 10),
			Name:          data.name,
			Description:   data.description,
			Price:         data.price,
			OriginalPrice: original,
			Stock:         data.stock,
			Category:      data.category,
			Colors:        data.colors,
			Sizes:         data.sizes,
			Images:        images,
			PurchaseLimit: entity.DefaultPurchaseLimit,
			CreatedAt:     now.Add(time.Duration(i) * time.Millisecond),
		}, nil))
	}

	return products
}
