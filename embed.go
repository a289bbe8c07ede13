package main

import (
	_ "embed"
	"html/template"

	"github.com/rs/zerolog/log"
)

//go:embed www/index.html
var indexTemplateEmbed string
var indexTemplate *template.Template

func GetIndexTemplate() (*template.Template, error) {
	if NoEmbed {
		// Dynamically read & build
		log.Debug().Msg("Reading index.html template dynamically from filesystem")
		return template.ParseFiles("www/index.html")
	}

	if indexTemplate == nil {
		// Build new from embed and cache
		log.Debug().Msg("Caching embedded index.html")
		tmpl, err := template.New("index.html").Parse(indexTemplateEmbed)
		if err != nil {
			return nil, err
		}
		indexTemplate = tmpl
	}

	return indexTemplate, nil
}
