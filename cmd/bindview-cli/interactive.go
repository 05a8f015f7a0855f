package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"gopkg.in/yaml.v3"
)

var errAborted = errors.New("aborted")

const (
	actionSet      = "set a property"
	actionDispatch = "dispatch an event"
	actionPrint    = "print html"
	actionQuit     = "quit"
)

// prompter abstracts the terminal so the interactive loop can be tested
// without one.
type prompter interface {
	Select(ctx context.Context, message string, options []string) (string, error)
	Input(ctx context.Context, message, help string) (string, error)
}

type surveyPrompter struct{}

func newSurveyPrompter() prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Select(ctx context.Context, message string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{Message: message, Options: options}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(ctx context.Context, message, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: message, Help: help}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

// interact asks for steps until the user quits or interrupts.
func (s *session) interact(ctx context.Context, p prompter) error {
	for {
		action, err := p.Select(ctx, "Next step", []string{actionSet, actionDispatch, actionPrint, actionQuit})
		if errors.Is(err, errAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		var step Step
		switch action {
		case actionQuit:
			return nil
		case actionPrint:
			step.Print = true
		case actionSet:
			if step.Set, err = p.Input(ctx, "Property", "dotted keypath, e.g. user.name"); err != nil {
				break
			}
			var raw string
			if raw, err = p.Input(ctx, "Value", "parsed as YAML: true, 3, [a, b] or text"); err == nil {
				step.Value = parseValue(raw)
			}
		case actionDispatch:
			if step.Target, err = p.Input(ctx, "Target element id", ""); err != nil {
				break
			}
			if step.Dispatch, err = p.Input(ctx, "Event", "click, input, change or submit"); err != nil {
				break
			}
			var raw string
			if raw, err = p.Input(ctx, "Event value", ""); err == nil && raw != "" {
				step.Value = raw
			}
		}
		if errors.Is(err, errAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.apply(step); err != nil {
			s.view.Logger().Warn("step failed", slog.Any("error", err))
			if _, werr := s.out.Write([]byte("error: " + err.Error() + "\n")); werr != nil {
				return werr
			}
		}
	}
}

// parseValue reads raw as a YAML scalar or collection, falling back to the
// trimmed text.
func parseValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	var out any
	if err := yaml.Unmarshal([]byte(trimmed), &out); err != nil {
		return trimmed
	}
	return out
}
