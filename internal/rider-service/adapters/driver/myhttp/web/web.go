// Package web renders the form page and serves its static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/domain/translations"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type LocaleOption struct {
	Code  model.Locale
	Label string
}

type VehicleOption struct {
	Value    model.VehicleType
	Label    string
	Selected bool
}

type AdsConfig struct {
	Client string
	Slot   string
}

type PageData struct {
	T             translations.Table
	Locale        model.Locale
	Prompt        bool
	LocaleOptions []LocaleOption
	Form          model.FormState
	StartList     model.SuggestionList
	DestList      model.SuggestionList
	Vehicles      []VehicleOption
	Error         string
	Ads           AdsConfig
}

// NewPageData fills the parts derived from the translation table.
func NewPageData(t translations.Table, prompt bool, suggested model.Locale, sess model.Session) PageData {
	options := []LocaleOption{
		{Code: model.LocaleEN, Label: t.English},
		{Code: model.LocaleBN, Label: t.Bengali},
	}
	if suggested == model.LocaleBN {
		options[0], options[1] = options[1], options[0]
	}

	vehicles := make([]VehicleOption, 0, len(model.VehicleTypes))
	for _, v := range model.VehicleTypes {
		vehicles = append(vehicles, VehicleOption{
			Value:    v,
			Label:    t.Vehicles.Label(v),
			Selected: v == sess.Form.VehicleType,
		})
	}

	return PageData{
		T:             t,
		Locale:        t.Locale,
		Prompt:        prompt,
		LocaleOptions: options,
		Form:          sess.Form,
		StartList:     sess.Suggestions[model.FieldStart],
		DestList:      sess.Suggestions[model.FieldDestination],
		Vehicles:      vehicles,
	}
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, data PageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
