package deptstate

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	// PathRoot is the dashboard landing route.
	PathRoot = "/"
	// PathUpload is the upload entry point.
	PathUpload = "/upload"
)

// RouteName identifies a dashboard route.
type RouteName string

const (
	RouteDashboard  RouteName = "dashboard"
	RouteDepartment RouteName = "department"
	RouteAnalytics  RouteName = "analytics"
	RouteAnalysis   RouteName = "analysis"
	RouteUpload     RouteName = "upload"
)

// Route is the parameter set of a navigation.
type Route struct {
	Name       RouteName `json:"name"`
	Department string    `json:"department,omitempty"`
	FileID     string    `json:"fileId,omitempty"`
}

// Slug normalizes a department name for use as a path segment:
// lowercase, runs of whitespace or slashes collapsed into a single hyphen.
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '/'
	})
	return strings.Join(fields, "-")
}

// AnalysisPath builds the explicit analysis route for a department/file pair.
func AnalysisPath(department, fileID string) string {
	return "/analysis/" + url.PathEscape(department) + "/" + url.PathEscape(fileID)
}

// DepartmentPath builds the sidebar route for a department.
func DepartmentPath(department string) string {
	return "/department/" + url.PathEscape(Slug(department))
}
