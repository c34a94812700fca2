package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vcrobe/nojs-history/console"
	"github.com/vcrobe/nojs-history/history"
	"github.com/vcrobe/nojs-history/location"
	"github.com/vcrobe/nojs-history/params"
	"github.com/vcrobe/nojs-history/router"
	"github.com/vcrobe/nojs-history/unload"
)

// Route maps a path pattern to a page title. Patterns may contain
// parameters in curly braces, e.g. "/blog/{year}".
type Route struct {
	Path  string
	Title string
}

var routes = []Route{
	{Path: "/", Title: "Home"},
	{Path: "/about", Title: "About"},
	{Path: "/blog/{year}", Title: "Blog {year}"},
	{Path: "/users/{id}/edit", Title: "Edit user {id}"},
}

// matchRoute returns the first route matching path and its parameters.
func matchRoute(path string) (*Route, map[string]string) {
	for i := range routes {
		if matchesPattern(routes[i].Path, path) {
			return &routes[i], extractParams(routes[i].Path, path)
		}
	}
	return nil, nil
}

func trimPath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// matchesPattern checks if an actual path matches a route pattern.
func matchesPattern(pattern, path string) bool {
	pattern, path = trimPath(pattern), trimPath(path)
	if pattern == path {
		return true
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if isParam(patternParts[i]) {
			continue
		}
		if patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}

// extractParams parses URL parameters from a path based on a route pattern.
//
//	extractParams("/users/{id}/edit", "/users/42/edit") returns {"id": "42"}
func extractParams(routePath, actualPath string) map[string]string {
	routeParts := strings.Split(strings.Trim(trimPath(routePath), "/"), "/")
	actualParts := strings.Split(strings.Trim(trimPath(actualPath), "/"), "/")

	vars := make(map[string]string)
	for i := range routeParts {
		if i >= len(actualParts) {
			break
		}
		if isParam(routeParts[i]) {
			vars[strings.Trim(routeParts[i], "{}")] = actualParts[i]
		}
	}
	return vars
}

func isParam(part string) bool {
	return strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}")
}

// App wires the router to the demo pages. Unknown paths are redirected home
// with Replace from inside the location subscription.
type App struct {
	Engine *router.Engine
	dirty  bool
	render func(title, body string)
}

// NewApp creates and starts the demo over env. confirm answers the
// unsaved-changes question; nil uses the platform dialog.
func NewApp(env history.Environment, confirm unload.ConfirmFunc, render func(title, body string), opts ...router.Option) (*App, error) {
	a := &App{render: render}

	var regOpts []unload.Option
	if confirm != nil {
		regOpts = append(regOpts, unload.WithConfirm(confirm))
	}
	reg := unload.NewRegistry(regOpts...)
	reg.Register(&unload.Interceptor{
		Enabled: func() bool { return a.dirty },
		Message: "Discard the changes to this user?",
		OnConfirm: func() {
			a.dirty = false
		},
	})

	engine, err := router.NewEngine(env, append(opts, router.WithRegistry(reg))...)
	if err != nil {
		return nil, err
	}
	a.Engine = engine
	engine.Subscribe(a.show)

	if err := engine.Start(context.Background()); err != nil {
		return nil, err
	}
	a.show(engine.View())
	return a, nil
}

// SetDirty marks the edit form as having unsaved changes.
func (a *App) SetDirty(dirty bool) {
	a.dirty = dirty
}

// Dirty reports whether the edit form has unsaved changes.
func (a *App) Dirty() bool {
	return a.dirty
}

func (a *App) show(v location.View) {
	route, vars := matchRoute(v.Pathname)
	if route == nil {
		console.Warn("no route, redirecting home", "path", v.Pathname)
		if err := a.Engine.Replace("/", location.WithHash(params.Values{"missing": v.Pathname})); err != nil {
			a.render("Error", err.Error())
		}
		return
	}

	title := route.Title
	for name, value := range vars {
		title = strings.ReplaceAll(title, "{"+name+"}", value)
	}

	method := v.Method.String()
	if v.Initial {
		method = "LOAD"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s via %s", v.URL(), method)
	for _, k := range slices.Sorted(maps.Keys(v.SearchParams)) {
		fmt.Fprintf(&body, "\n%s: %v", k, v.SearchParams[k])
	}
	if missing, ok := v.HashParams["missing"]; ok {
		fmt.Fprintf(&body, "\nno page at %v", missing)
	}
	a.render(title, body.String())
}
