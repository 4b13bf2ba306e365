// Package diagram draws the two-node route graph: origin and destination joined by a directed
// edge labelled with the number of scheduled flights.
package diagram

import (
	"image/color"
	"strconv"
)

// Title is printed above every diagram
const Title = "Total Scheduled flights"

var (
	backgroundColor = color.RGBA{0x18, 0x19, 0x1b, 0xff}
	nodeColor       = color.RGBA{0x9e, 0xc5, 0xff, 0xff}
	nodeLabelColor  = color.RGBA{0x00, 0x00, 0x00, 0xff}
	textColor       = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Node is one airport. X and Y are fractions of the canvas size.
type Node struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Diagram is the layout of a route graph, independent of the output format
type Diagram struct {
	Title  string `json:"title"`
	Weight int64  `json:"weight"`
	From   Node   `json:"from"`
	To     Node   `json:"to"`
}

// New lays out the graph for origin->dest. Node positions are fixed.
func New(weight int64, origin, dest string) Diagram {
	return Diagram{
		Title:  Title,
		Weight: weight,
		From:   Node{Label: origin, X: 0.25, Y: 0.58},
		To:     Node{Label: dest, X: 0.75, Y: 0.58},
	}
}

// EdgeLabel is the text printed on the edge
func (d Diagram) EdgeLabel() string {
	return strconv.FormatInt(d.Weight, 10)
}
