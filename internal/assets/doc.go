// Package assets provides the theme class tables, cell wrapper templates and
// document styles used to render notebooks.
//
// A Source reads one asset tree, either the set embedded at compile time or
// a directory on disk. A Resolver chains a custom directory in front of the
// embedded Source so a user can override one theme file and keep the rest.
//
// Every tree has the same layout:
//
//	themes/{name}.yaml      semantic key -> CSS class table
//	templates/{name}.html   collapsible cell wrapper for a theme
//	templates/document.html standalone HTML page
//	styles/{name}.css       stylesheet embedded in standalone pages
//
// Asset names are plain identifiers. Directory sources read through an
// os.Root, which refuses symlinks that leave the base directory.
package assets
