// Package docgate embeds the docgate document store in a Go program without
// going through HTTP. It applies the same schemas, defaults, query rules and
// seeding as the gateway.
//
//	client, _ := docgate.New(ctx, docgate.WithMongo("mongodb://localhost:27017", "shop"))
//	defer client.Close()
//
//	id, _ := client.Products().Create(ctx, docgate.Product{
//	    Title: "Whey Isolate", Price: 39.99, Category: "powder",
//	})
//	snacks, _ := client.Products().Find(ctx, docgate.Filter{
//	    Exact: map[string]string{"category": "snack"},
//	    Term:  "cookie",
//	})
//
// For tests and local tools WithMemory keeps everything in process.
package docgate
