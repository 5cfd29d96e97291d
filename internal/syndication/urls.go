package syndication

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	// DefaultRouteGroup is the route group syndication resolves article URLs
	// against.
	DefaultRouteGroup = "blog"
	// DefaultArticleRoute names the per-article route inside the group.
	DefaultArticleRoute = "article"
	// DefaultArticlePath is the route template applied when hosts configure
	// only a base URL.
	DefaultArticlePath = "/blog/:slug"
)

// DefaultRouteConfig derives a urlkit route table from a base URL and article
// path template. Hosts that need more control pass their own *urlkit.Config
// through SiteConfig.RouteConfig instead.
func DefaultRouteConfig(baseURL, articlePath string) *urlkit.Config {
	path := strings.TrimSpace(articlePath)
	if path == "" {
		path = DefaultArticlePath
	}
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    DefaultRouteGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					DefaultArticleRoute: path,
				},
			},
		},
	}
}

// URLResolver builds absolute article URLs through a urlkit route manager.
type URLResolver struct {
	manager *urlkit.RouteManager
	group   string
	route   string
}

// NewURLResolver constructs a resolver for the given group and route names;
// empty names select the defaults.
func NewURLResolver(manager *urlkit.RouteManager, group, route string) *URLResolver {
	if strings.TrimSpace(group) == "" {
		group = DefaultRouteGroup
	}
	if strings.TrimSpace(route) == "" {
		route = DefaultArticleRoute
	}
	return &URLResolver{
		manager: manager,
		group:   group,
		route:   route,
	}
}

// ArticleURL resolves the absolute URL for a slug.
func (r *URLResolver) ArticleURL(slug string) (string, error) {
	if r == nil || r.manager == nil {
		return "", fmt.Errorf("syndication: route manager not configured")
	}

	group, err := lookupGroup(r.manager, r.group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}

	url, err := builder.WithParam("slug", slug).Build()
	if err != nil {
		return "", fmt.Errorf("syndication: build article url for %q: %w", slug, err)
	}
	return url, nil
}

// urlkit panics on unknown groups and routes; convert those into errors so a
// misconfigured route table degrades to a report instead of a crash.
func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("syndication: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("syndication: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("syndication: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
