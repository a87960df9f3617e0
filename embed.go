package site

import "embed"

// Content holds the bundled articles under content/articles.
//
//go:embed content
var Content embed.FS

// Assets holds the static files served under /public.
//
//go:embed public
var Assets embed.FS
