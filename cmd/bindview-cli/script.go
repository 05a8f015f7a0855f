package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/view"
)

// Script is the YAML file replayed against a rendered view.
//
//	handlers:
//	  save: {set: saved, value: true}
//	steps:
//	  - set: name
//	    value: Bo
//	  - dispatch: click
//	    target: save-button
//	  - print: true
type Script struct {
	// Handlers become delegate methods usable from on-* directives.
	Handlers map[string]Action `yaml:"handlers"`
	Steps    []Step            `yaml:"steps"`
}

// Action writes a property when a handler fires. A missing value writes the
// event value.
type Action struct {
	Set   string `yaml:"set"`
	Value any    `yaml:"value"`
}

// Step is one of: set a property, dispatch a DOM event on the element with
// the target id, or print the current HTML.
type Step struct {
	Set      string `yaml:"set"`
	Value    any    `yaml:"value"`
	Dispatch string `yaml:"dispatch"`
	Target   string `yaml:"target"`
	Print    bool   `yaml:"print"`
}

func loadModel(path string) (map[string]any, error) {
	model := map[string]any{}
	if path == "" {
		return model, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if model == nil {
		model = map[string]any{}
	}
	return model, nil
}

func loadScript(path string) (Script, error) {
	if path == "" {
		return Script{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("parse script %s: %w", path, err)
	}
	return script, nil
}

type session struct {
	view *view.View
	out  io.Writer
}

func (s *session) delegate(handlers map[string]Action) view.Delegate {
	d := view.Delegate{}
	for name, action := range handlers {
		d[name] = func(ev *dom.Event) error {
			if action.Set == "" {
				return fmt.Errorf("handler %q: set is required", name)
			}
			value := action.Value
			if value == nil {
				value = ev.Value
			}
			return s.view.Set(action.Set, value)
		}
	}
	return d
}

func (s *session) run(steps []Step) error {
	for i, step := range steps {
		if err := s.apply(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *session) apply(step Step) error {
	switch {
	case step.Set != "":
		return s.view.Set(step.Set, step.Value)
	case step.Dispatch != "":
		return s.dispatch(step.Target, step.Dispatch, step.Value)
	case step.Print:
		return s.print()
	default:
		return errors.New("step needs one of set, dispatch or print")
	}
}

func (s *session) dispatch(target, event string, value any) error {
	if target == "" {
		return fmt.Errorf("dispatch %s: target is required", event)
	}
	el := dom.ByID(s.view.Root(), target)
	if el == nil {
		return fmt.Errorf("dispatch %s: no element with id %q", event, target)
	}
	text := ""
	if value != nil {
		text = fmt.Sprint(value)
	}
	return s.view.Dispatch(el, event, text)
}

func (s *session) print() error {
	out, err := s.view.HTML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, out)
	return err
}
