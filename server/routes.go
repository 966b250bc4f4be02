package server

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/component"
)

// Health endpoints registered by RegisterDefaultEndpoints.
const (
	PathHealth = "/health"
	PathReady  = "/ready"
	PathInfo   = "/info"
)

func isSystemPath(p string) bool {
	return p == PathHealth || p == PathReady || p == PathInfo
}

var methodRank = map[string]int{
	http.MethodGet:    0,
	http.MethodPost:   1,
	http.MethodPut:    2,
	http.MethodPatch:  3,
	http.MethodDelete: 4,
}

func methodOrder(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank)
}

// summaryRoutes orders routes for the startup banner: application routes
// before health endpoints, then by path, then by method.
func summaryRoutes(in gin.RoutesInfo) []component.Route {
	slices.SortFunc(in, func(a, b gin.RouteInfo) int {
		if sa, sb := isSystemPath(a.Path), isSystemPath(b.Path); sa != sb {
			if sa {
				return 1
			}
			return -1
		}
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			cmp.Compare(methodOrder(a.Method), methodOrder(b.Method)),
		)
	})

	out := make([]component.Route, len(in))
	for i, r := range in {
		out[i] = component.Route{Method: r.Method, Path: r.Path, Handler: formatHandlerName(r.Handler)}
	}
	return out
}

// formatHandlerName shortens Gin's handler path:
// "github.com/x/y/server/endpoint.Health.func1" -> "health".
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	// Closures: the last segment that is not "funcN" names the factory.
	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		return rest
	}
	return name
}
