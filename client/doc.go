// Package client is the language model gateway used by the pipeline.
//
// A Client selects one chat provider and one image provider from
// configuration, creates the underlying SDK clients lazily on first use and
// retries transient failures with exponential backoff.
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    Provider: ai.ProviderOpenAI,
//	    APIKeys:  client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	})
//
//	text, err := c.GenerateText(ctx, "You are a concise editor.", "Summarize Go generics.")
//
// # Structured Output
//
// GenerateStructured requests JSON matching a schema, validates the reply
// against that schema and decodes it. Replies that do not conform fail with
// *ai.SchemaError and are never retried:
//
//	var decision blog.RouterDecision
//	err := c.GenerateStructured(ctx, system, user, blog.RouterDecisionSchema, &decision)
//
// Structured is the generic form:
//
//	plan, err := client.Structured[blog.Plan](ctx, c, system, user, blog.PlanSchema)
//
// # Events
//
// Config.Events receives request_start, request_complete, request_error and
// retry events. Sends never block; events are dropped when the channel is full.
package client
