package dto

import "time"

// Grafana JSON-datasource request/response shapes.

// GrafanaRange is the time range of a query.
type GrafanaRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// GrafanaTarget selects one series by name.
type GrafanaTarget struct {
	Target string `json:"target"`
}

// GrafanaQueryRequest is the body of /query.
type GrafanaQueryRequest struct {
	Range   GrafanaRange    `json:"range"`
	Targets []GrafanaTarget `json:"targets"`
}

// GrafanaTimeSeries is one series of [value, epoch-millis] datapoints.
type GrafanaTimeSeries struct {
	Target     string       `json:"target"`
	DataPoints [][2]float64 `json:"datapoints"`
}

// GrafanaSearchRequest is the body of /search.
type GrafanaSearchRequest struct {
	Target string `json:"target"`
}

// GrafanaAnnotationRequest is the body of /annotations.
type GrafanaAnnotationRequest struct {
	Range      GrafanaRange `json:"range"`
	Annotation struct {
		Name string `json:"name"`
	} `json:"annotation"`
}

// GrafanaAnnotation is one annotation event.
type GrafanaAnnotation struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Time  int64    `json:"time"`
	Tags  []string `json:"tags,omitempty"`
}
