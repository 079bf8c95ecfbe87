package session

import (
	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/geom"
	"github.com/example/annotator/internal/render"
)

// Media is a [url, name] pair attached to a classification.
type Media [2]string

// Classification is the record written to the classifications table.
type Classification struct {
	Author             string        `json:"author"`
	Content            string        `json:"content"`
	Media              []Media       `json:"media"`
	Anomaly            *int64        `json:"anomaly,omitempty"`
	ClassificationType string        `json:"classificationtype"`
	Configuration      Configuration `json:"classificationConfiguration"`
	Parent             *int64        `json:"classificationParent,omitempty"`
}

// Configuration is the structured summary stored alongside the image.
type Configuration struct {
	AnnotationOptions      []string          `json:"annotationOptions"`
	Drawings               []DrawingRecord   `json:"drawings"`
	AdditionalFields       map[string]string `json:"additionalFields,omitempty"`
	CategoryTable          string            `json:"categoryTable,omitempty"`
	Canvas                 Canvas            `json:"canvas"`
	ParentPlanetLocation   *int64            `json:"parentPlanetLocation,omitempty"`
	ParentClassificationID *int64            `json:"parentClassificationId,omitempty"`
	CreatedBy              string            `json:"createdBy,omitempty"`
}

// Canvas records the logical size the drawing coordinates refer to.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"pixelRatio"`
}

// DrawingRecord is the serialised form of one drawing.
type DrawingRecord struct {
	Type        string       `json:"type"`
	Category    string       `json:"category"`
	Color       string       `json:"color"`
	StrokeWidth int          `json:"strokeWidth"`
	Points      []geom.Point `json:"points"`
	Anchor      *geom.Point  `json:"anchor,omitempty"`
	Opposite    *geom.Point  `json:"opposite,omitempty"`
}

// Linkage carries identifiers that tie a classification to earlier work.
// They are forwarded untouched.
type Linkage struct {
	ParentClassification *int64
	ParentLocation       *int64
	CreatedBy            string
}

func recordOf(obj annotation.DrawingObject) DrawingRecord {
	rec := DrawingRecord{
		Type:        obj.Kind.String(),
		Category:    obj.Category,
		Color:       render.Hex(obj.StrokeColor),
		StrokeWidth: obj.StrokeWidth,
		Points:      append([]geom.Point(nil), obj.Points...),
	}
	if obj.Anchor != nil {
		a := *obj.Anchor
		rec.Anchor = &a
	}
	if obj.Opposite != nil {
		o := *obj.Opposite
		rec.Opposite = &o
	}
	return rec
}
