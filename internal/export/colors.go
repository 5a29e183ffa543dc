package export

import "image/color"

var palette = []color.RGBA{
	{R: 0x00, G: 0x99, B: 0xcc, A: 0xff},
	{R: 0xff, G: 0x88, B: 0x00, A: 0xff},
	{R: 0x22, G: 0xaa, B: 0x44, A: 0xff},
	{R: 0xcc, G: 0x00, B: 0xcc, A: 0xff},
}

func plotutilColor(i int) color.Color {
	return palette[i%len(palette)]
}
