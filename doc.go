// Package fieldmatch finds the schema fields that best correspond to a given field.
//
// Each field (handle, label, type and an optional description) is projected to a short
// descriptive sentence, embedded with an OpenAI-compatible embedding model, and ranked
// against the candidates by cosine similarity.
//
//	m, _ := fieldmatch.New(fieldmatch.WithOpenAI(fieldmatch.OpenAIConfig{APIKey: key}))
//	query, _ := fieldmatch.NewField("salesDescription", "Sales Description", "string", "")
//	targets, _ := fieldmatch.LoadTargets("config/target_fields.json")
//	results, _ := m.Match(ctx, query, targets, fieldmatch.DefaultTopK)
//	for _, r := range results {
//	    fmt.Printf("%s %.3f\n", r.Field().Handle(), r.Score())
//	}
//
// Any type implementing Embedder can replace the OpenAI provider; if it also implements
// BatchEmbedder, candidates are embedded in a single call.
package fieldmatch
