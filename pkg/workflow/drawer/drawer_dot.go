// Package drawer renders the ordered stage graph of a pipeline run to a DOT
// file, annotated with per-stage durations and attempt counts when a measure
// is attached.
package drawer

import (
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	colors "gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-deckbuilder/pkg/workflow/measure"
)

// DOTDrawer is a drawer that writes the pipeline stage graph as a DOT file.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	stages   map[string]map[string]string
	fileName string
}

// NewDOTDrawer creates a drawer targeting fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
		stages:   make(map[string]map[string]string),
	}
}

// AddStage adds a stage to the graph.
func (d *DOTDrawer) AddStage(name string) error {
	if err := d.graph.AddVertex(name); err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	d.stages[name] = map[string]string{}

	return nil
}

// AddLink adds an execution-order edge between two stages.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure annotates the stage graph with per-stage durations and heat
// colours: the slowest stage trends red, the fastest blue.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()
	if len(metrics) == 0 {
		return nil
	}

	var sorted []time.Duration
	for _, mt := range metrics {
		if mt.Elapsed() == 0 {
			continue
		}
		sorted = append(sorted, mt.Elapsed())
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	maxValue := sorted[0]
	minValue := sorted[len(sorted)-1]

	for name, mt := range metrics {
		attrs, ok := d.stages[name]
		if !ok {
			continue
		}

		if mt.Elapsed() > 0 {
			attrs["xlabel"] = mt.Elapsed().String()

			fraction := 1.0
			if maxValue > minValue {
				fraction = float64(mt.Elapsed()-minValue) / float64(maxValue-minValue)
			}
			red := maxRGB * fraction
			blue := -maxRGB*fraction + maxRGB

			heat, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}
			attrs["color"] = heat.ToHEX().String()
		}
		if mt.Attempts() > 1 {
			attrs["shape"] = "doubleoctagon"
		}
		if mt.Failed() {
			attrs["color"] = "#FF0000"
			attrs["style"] = "dashed"
		}
	}

	return nil
}

// Draw writes the DOT file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	desc, err := d.describe()
	if err != nil {
		return err
	}

	tmpl, err := template.New("dot").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse dot template")
	}
	if err := tmpl.Execute(file, desc); err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.fileName)
	}

	return nil
}

const dotTemplate = `strict digraph {
{{range $s := .Statements}}	"{{.Source}}" {{if .Target}}-> "{{.Target}}"{{else}}[ {{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}} ]{{end}};
{{end}}}
`

type statement struct {
	Source     string
	Target     string
	Attributes map[string]string
}

type description struct {
	Statements []statement
}

func (d *DOTDrawer) describe() (*description, error) {
	adjacency, err := d.graph.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read stage graph")
	}

	names := make([]string, 0, len(adjacency))
	for name := range adjacency {
		names = append(names, name)
	}
	sort.Strings(names)

	desc := &description{}
	for _, name := range names {
		desc.Statements = append(desc.Statements, statement{
			Source:     name,
			Attributes: d.stages[name],
		})

		targets := make([]string, 0, len(adjacency[name]))
		for target := range adjacency[name] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			desc.Statements = append(desc.Statements, statement{Source: name, Target: target})
		}
	}

	return desc, nil
}

var _ Drawer = (*DOTDrawer)(nil)
