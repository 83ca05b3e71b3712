package generation

import (
	"context"

	"github.com/jwalitptl/smartplan-api/internal/model"
)

// StaticGenerator expands the prompt into a skeleton content document
// without calling out anywhere. Deployments wire the real content engine
// behind the Generator interface instead.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (g *StaticGenerator) Generate(_ context.Context, prompt string, options []*model.TemplateOption) (model.JSONMap, error) {
	defaults := model.JSONMap{}
	for _, opt := range options {
		if len(opt.DefaultValue) > 0 {
			defaults[opt.Name] = opt.DefaultValue
		}
	}

	return model.JSONMap{
		"prompt":  prompt,
		"options": defaults,
	}, nil
}
