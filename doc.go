// Package blogsmith turns a topic into a finished, illustrated technical blog post.
//
// The root package holds the language-model primitives every other package
// shares: messages and responses, chat and image options, the [ChatProvider]
// and [ImageProvider] interfaces, [ResponseSchema] for structured output and
// the categorized [Error] type used for retry decisions.
//
// Most callers never touch these types directly. The entry points are:
//
//   - [github.com/spetersoncode/blogsmith/client]: the language model gateway
//     (provider selection, retries, text and structured generation)
//   - [github.com/spetersoncode/blogsmith/pipeline]: the blog-writing workflow
//   - [github.com/spetersoncode/blogsmith/store]: persisted posts and exports
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    Provider: blogsmith.ProviderOpenAI,
//	    APIKeys:  client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	})
//
//	p := pipeline.New(c, pipeline.WithImages(renderer), pipeline.WithStore(st))
//	res, err := p.Run(ctx, pipeline.Input{Topic: "Binary search trees"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.State.FinalMarkdown)
//
// # Structured Output
//
// Structured calls carry a [ResponseSchema] built with the schema package.
// A reply that is not valid JSON, or that violates the schema, surfaces as a
// [*SchemaError]:
//
//	var plan blog.Plan
//	err := c.GenerateStructured(ctx, system, user, blog.PlanSchema, &plan)
//	var se *blogsmith.SchemaError
//	if errors.As(err, &se) {
//	    log.Printf("model reply did not match %s: %v", se.Schema, se.Err)
//	}
//
// # Error Handling
//
// Provider errors are categorized so callers can decide whether to retry:
//
//	if blogsmith.IsTransient(err) {
//	    // rate limit or server error, safe to retry
//	}
package blogsmith
