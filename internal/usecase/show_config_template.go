package usecase

import (
	"context"

	"github.com/daybook-app/daybook/internal/domain"
)

// ShowConfigTemplateOutput contains the output of the ShowConfigTemplate use case.
type ShowConfigTemplateOutput struct {
	Template string // Commented TOML with the default values
}

// ShowConfigTemplate renders the configuration template without writing it.
type ShowConfigTemplate struct{}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate() *ShowConfigTemplate {
	return &ShowConfigTemplate{}
}

// Execute renders the template for the default configuration.
func (uc *ShowConfigTemplate) Execute(_ context.Context) (*ShowConfigTemplateOutput, error) {
	return &ShowConfigTemplateOutput{Template: domain.RenderConfigTemplate(domain.NewDefaultConfig())}, nil
}
