package generator

import (
	"context"
	"log"
)

// Client is the AI collaborator: one prompt in, raw model text out. Failures
// must be *Error values so the pipeline boundary can classify them.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator runs the quiz assembly pipeline: prompt construction, the model
// call, response validation, and answer-position balancing for multiple
// choice. The call is synchronous and is not retried here; retries belong to
// the caller.
type Generator struct {
	client   Client
	balancer *Balancer
}

func New(client Client, balancer *Balancer) *Generator {
	if balancer == nil {
		balancer = NewBalancer(nil)
	}
	return &Generator{
		client:   client,
		balancer: balancer,
	}
}

func (g *Generator) Generate(ctx context.Context, req Request) ([]*Question, error) {
	req.Normalize()

	prompt := BuildPrompt(req)

	text, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := ParseResponse(text, req)
	if err != nil {
		return nil, err
	}

	if req.Type == TypeMultipleChoice && len(questions) >= 2 {
		if swapped := g.balancer.Balance(questions); swapped > 0 {
			log.Printf("Rebalanced correct-answer positions for %d of %d questions", swapped, len(questions))
		}
	}

	return questions, nil
}
