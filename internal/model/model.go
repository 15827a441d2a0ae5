// Package model provides read-only access to an AppDNA model file.
//
// The model is the single source of truth for user stories and objects.
// Nothing in this module ever writes it back; tracking data lives in the
// sidecar documents (see the sidecar package).
package model

import (
	"strconv"
	"strings"
)

// Model is the parsed model file.
type Model struct {
	Root *RootNode `json:"root"`
}

// RootNode holds the model namespaces.
type RootNode struct {
	Namespace []Namespace `json:"namespace"`
}

// Namespace groups user stories and objects.
type Namespace struct {
	Name      string        `json:"name"`
	UserStory []UserStory   `json:"userStory,omitempty"`
	Object    []ModelObject `json:"object,omitempty"`
}

// UserStory is one user story as authored in the model.
// Name is the stable identifier; sidecar documents reference it as storyId.
type UserStory struct {
	Name             string `json:"name"`
	StoryNumber      string `json:"storyNumber,omitempty"`
	StoryText        string `json:"storyText,omitempty"`
	IsIgnored        string `json:"isIgnored,omitempty"`
	IsStoryProcessed string `json:"isStoryProcessed,omitempty"`
}

// Processed reports whether the story has been through the processing
// pipeline. Only processed stories are visible to tracking features.
func (s UserStory) Processed() bool {
	return s.IsStoryProcessed == "true"
}

// Ignored reports whether the story is excluded from all views.
func (s UserStory) Ignored() bool {
	return s.IsIgnored == "true"
}

// NumberValue parses StoryNumber as an integer; non-numeric numbers
// parse as 0. Used for numeric sorting and queue-position defaults.
func (s UserStory) NumberValue() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.StoryNumber))
	if err != nil {
		return 0
	}

	return n
}

// ModelObject is one data object, possibly with nested child objects.
type ModelObject struct {
	Name             string        `json:"name"`
	ParentObjectName string        `json:"parentObjectName,omitempty"`
	Report           []Report      `json:"report,omitempty"`
	ObjectWorkflow   []Workflow    `json:"objectWorkflow,omitempty"`
	ChildObject      []ModelObject `json:"childObject,omitempty"`
}

// Report is a report definition under an object. Reports with
// IsPage == "true" are user-visible pages.
type Report struct {
	Name              string `json:"name"`
	TitleText         string `json:"titleText,omitempty"`
	IsPage            string `json:"isPage,omitempty"`
	RoleRequired      string `json:"roleRequired,omitempty"`
	TargetChildObject string `json:"targetChildObject,omitempty"`
}

// Workflow is an object workflow (form) definition. Workflows default to
// pages unless IsPage is explicitly "false".
type Workflow struct {
	Name         string `json:"name"`
	TitleText    string `json:"titleText,omitempty"`
	IsPage       string `json:"isPage,omitempty"`
	RoleRequired string `json:"roleRequired,omitempty"`
	IsStartPage  string `json:"isStartPage,omitempty"`
}

// PageReport reports whether the report is rendered as a page.
func (r Report) PageReport() bool {
	return r.IsPage == "true"
}

// PageWorkflow reports whether the workflow is rendered as a page.
// Unlike reports, workflows are pages by default.
func (w Workflow) PageWorkflow() bool {
	return w.IsPage != "false"
}

// AllStories returns every user story across all namespaces, in model order.
func (m *Model) AllStories() []UserStory {
	if m == nil || m.Root == nil {
		return nil
	}

	var stories []UserStory
	for _, ns := range m.Root.Namespace {
		stories = append(stories, ns.UserStory...)
	}

	return stories
}

// AllObjects returns every object across all namespaces, flattening nested
// child objects depth-first.
func (m *Model) AllObjects() []ModelObject {
	if m == nil || m.Root == nil {
		return nil
	}

	var objects []ModelObject
	for _, ns := range m.Root.Namespace {
		for _, obj := range ns.Object {
			objects = appendObjectTree(objects, obj)
		}
	}

	return objects
}

func appendObjectTree(dst []ModelObject, obj ModelObject) []ModelObject {
	dst = append(dst, obj)
	for _, child := range obj.ChildObject {
		dst = appendObjectTree(dst, child)
	}

	return dst
}

// StoryByID returns the story with the given identifier, if present.
func (m *Model) StoryByID(storyID string) (UserStory, bool) {
	for _, s := range m.AllStories() {
		if s.Name == storyID {
			return s, true
		}
	}

	return UserStory{}, false
}
