// Package smartmatch embeds the smartmatch query parser in a Go program.
//
// A Client turns natural-language product queries into facets declared by a
// schema document, using an OpenAI-compatible or Gemini completion provider.
// Every call is a single upstream request; nothing is cached or retried.
//
//	client, err := smartmatch.New(ctx,
//	    smartmatch.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4.1-nano"),
//	    smartmatch.WithSchemaFile("config/facets.yaml"),
//	)
//	res, err := client.Parse(ctx, "iPhone 15 Pro 256GB under 800")
//	fmt.Println(res.Facets["brand"]) // Apple
//
// Failures match the exported sentinels with errors.Is, and Stage reports
// how far a failed attempt got:
//
//	if errors.Is(err, smartmatch.ErrUpstream) {
//	    log.Printf("provider failed at %s", smartmatch.Stage(err))
//	}
package smartmatch
