package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"slidegen/config"
	"slidegen/deck"
	"slidegen/template"
)

// LLMDelegate implements Delegate against an OpenAI-compatible chat model.
type LLMDelegate struct {
	chatModel model.ChatModel
	logger    func(string)
}

// NewLLMDelegate builds the eino chat model from config and wraps it as a
// Delegate.
func NewLLMDelegate(ctx context.Context, cfg config.Config, logger func(string)) (*LLMDelegate, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ModelName,
		Timeout: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %v", err)
	}

	return &LLMDelegate{chatModel: chatModel, logger: logger}, nil
}

// NewDelegateWithModel wraps an existing chat model. Used by tests and by
// callers that construct the model themselves.
func NewDelegateWithModel(chatModel model.ChatModel, logger func(string)) *LLMDelegate {
	return &LLMDelegate{chatModel: chatModel, logger: logger}
}

func (d *LLMDelegate) log(msg string) {
	if d.logger != nil {
		d.logger(msg)
	}
}

func (d *LLMDelegate) generate(ctx context.Context, system string, user string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	resp, err := d.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// FormatContent rewrites one slide's content for presentation.
func (d *LLMDelegate) FormatContent(ctx context.Context, unit deck.SlideUnit) (string, error) {
	content, err := d.generate(ctx, formatSystemPrompt, formatUserPrompt(unit))
	if err != nil {
		return "", fmt.Errorf("format content for slide %d: %w", unit.Ordinal, err)
	}
	return content, nil
}

// ChooseTemplate picks a template name for one slide. The name is returned
// as the model produced it; validation happens in the orchestrator.
func (d *LLMDelegate) ChooseTemplate(ctx context.Context, catalog string, unit deck.SlideUnit) (string, string, error) {
	content, err := d.generate(ctx, chooseSystemPrompt(catalog), chooseUserPrompt(unit))
	if err != nil {
		return "", "", fmt.Errorf("choose template for slide %d: %w", unit.Ordinal, err)
	}

	name, reason := parseTemplateChoice(content)
	d.log(fmt.Sprintf("[DELEGATE] Slide %d: chose template %q (%s)", unit.Ordinal, name, reason))
	return name, reason, nil
}

// CorrectTemplateChoice re-asks once with the full valid-name list.
func (d *LLMDelegate) CorrectTemplateChoice(ctx context.Context, invalidName string, validNames []string) (string, error) {
	content, err := d.generate(ctx, correctSystemPrompt(validNames), correctUserPrompt(invalidName))
	if err != nil {
		return "", fmt.Errorf("correct template choice: %w", err)
	}

	name, _ := parseTemplateChoice(content)
	d.log(fmt.Sprintf("[DELEGATE] Corrected template %q -> %q", invalidName, name))
	return name, nil
}

// AssignContent maps one slide's content onto the template placeholders.
// An unparsable response falls back to a title/main_text mapping; either way
// the result passes the validation gate before being returned.
func (d *LLMDelegate) AssignContent(ctx context.Context, tmpl template.Descriptor, unit deck.SlideUnit) (map[string]string, error) {
	content, err := d.generate(ctx, assignSystemPrompt(tmpl), assignUserPrompt(unit))
	if err != nil {
		return nil, fmt.Errorf("assign content for slide %d: %w", unit.Ordinal, err)
	}

	raw, err := parseContentMapping(content)
	if err != nil {
		d.log(fmt.Sprintf("[DELEGATE] Slide %d: mapping parse failed (%v), using fallback", unit.Ordinal, err))
		raw = map[string]string{
			"title":     fmt.Sprintf("スライド %d", unit.Ordinal),
			"main_text": unit.Content,
		}
	}

	return validateContentMapping(raw, tmpl, d.log), nil
}
