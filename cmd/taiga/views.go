package main

import (
	"strconv"
	"strings"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/service"
)

type recordView struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Type         string            `json:"type"`
	DateStart    string            `json:"date_start,omitempty"`
	Producers    []string          `json:"producers,omitempty"`
	AgeRating    string            `json:"age_rating,omitempty"`
	Genres       []string          `json:"genres,omitempty"`
	HasSynopsis  bool              `json:"has_synopsis"`
	LastModified int64             `json:"last_modified"`
	IDs          map[string]string `json:"ids,omitempty"`
}

func newRecordView(item *anime.Item, registry *service.Registry) recordView {
	view := recordView{
		ID:          int64(item.ID),
		Title:       item.Title,
		Type:        item.Type.String(),
		Producers:   item.Producers,
		AgeRating:   item.AgeRating,
		Genres:      item.Genres,
		HasSynopsis: item.HasSynopsis(),
	}
	if item.DateStart != (anime.Date{}) {
		view.DateStart = item.DateStart.String()
	}
	if !item.LastModified.IsZero() {
		view.LastModified = item.LastModified.Unix()
	}
	for svc, id := range item.IDs {
		name := registry.Name(svc)
		if name == "" || id == "" {
			continue
		}
		if view.IDs == nil {
			view.IDs = make(map[string]string)
		}
		view.IDs[name] = id
	}
	return view
}

func recordRows(items []*anime.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		start := "-"
		if item.DateStart != (anime.Date{}) {
			start = item.DateStart.String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(int64(item.ID), 10),
			item.Title,
			item.Type.String(),
			start,
			strings.Join(item.Producers, ", "),
		})
	}
	return rows
}

var recordHeaders = []string{"ID", "Title", "Type", "Start", "Producers"}

var recordAligns = []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
