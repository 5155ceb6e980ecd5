package ports

import (
	"context"

	"github.com/rty-renty/SuanMing/internal/domain"
)

// DivineInput holds everything the LLM needs to cast a fortune.
type DivineInput struct {
	Name      string
	BirthDate string
}

// DivineOutput is the structured fortune returned by the LLM.
type DivineOutput struct {
	Fortune domain.FortuneResult
	Model   string
}

// Oracle casts a fortune via a remote generative model. Implementations
// return a complete fortune or an error wrapping one of the domain
// sentinels.
type Oracle interface {
	Divine(ctx context.Context, apiKey string, in DivineInput) (DivineOutput, error)
}
