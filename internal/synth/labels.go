package synth

import (
	"fmt"
	"image"
	"sort"
)

// YOLOClassMap assigns the training class id of each labeled region. The ids
// must stay stable across dataset regenerations or existing model weights
// become meaningless.
var YOLOClassMap = map[string]int{
	"numero_factura": 0,
	"fecha":          1,
	"cuit_emisor":    2,
	"razon_social":   3,
	"tipo_factura":   4,
	"tabla_items":    5,
	"total":          6,
	"qr":             7,
}

// YOLOLabels converts absolute pixel boxes into normalized YOLO annotation
// lines ("class cx cy w h"), ordered by class id.
func YOLOLabels(boxes map[string]image.Rectangle, imgW, imgH int) []string {
	classes := make([]string, 0, len(boxes))
	for class := range boxes {
		if _, known := YOLOClassMap[class]; known {
			classes = append(classes, class)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return YOLOClassMap[classes[i]] < YOLOClassMap[classes[j]]
	})

	lines := make([]string, 0, len(classes))
	for _, class := range classes {
		box := boxes[class]
		cx := float64(box.Min.X+box.Max.X) / 2 / float64(imgW)
		cy := float64(box.Min.Y+box.Max.Y) / 2 / float64(imgH)
		w := float64(box.Dx()) / float64(imgW)
		h := float64(box.Dy()) / float64(imgH)
		lines = append(lines, fmt.Sprintf("%d %.6f %.6f %.6f %.6f", YOLOClassMap[class], cx, cy, w, h))
	}
	return lines
}
