package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/papilonwash/carwash_bot/internal/timeslot"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	cellWidth    = 34.0
	cellHeight   = 30.0
	cellGap      = 3.0
	marginX      = 52.0
	marginTop    = 44.0
	marginBottom = 20.0
	cornerRadius = 5.0
	slotsPerRow  = 24 // 6 часов в ряду при 15-минутных слотах
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	slotFreeColor  = color.RGBA{133, 193, 85, 220}
	slotBusyColor  = color.RGBA{255, 182, 193, 255}
	slotPastColor  = color.RGBA{200, 200, 200, 200}
	slotOtherColor = color.RGBA{220, 220, 220, 200}
)

// DayGrid рисует сетку занятости одного дня: по ряду на каждые шесть часов,
// свободные слоты зелёные, занятые розовые, прошедшие серые.
func DayGrid(date time.Time, slots []timeslot.Slot) ([]byte, error) {
	rows := (len(slots) + slotsPerRow - 1) / slotsPerRow
	width := int(marginX*2 + slotsPerRow*(cellWidth+cellGap))
	height := int(marginTop + float64(rows)*(cellHeight+14+cellGap) + marginBottom)

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01.2006"), float64(width)/2, marginTop/2, 0.5, 0.5)

	for i, slot := range slots {
		row := i / slotsPerRow
		col := i % slotsPerRow

		x := marginX + float64(col)*(cellWidth+cellGap)
		y := marginTop + float64(row)*(cellHeight+14+cellGap)

		// Подпись часа в начале каждого часа
		if slot.Start.Minute() == 0 {
			dc.SetColor(textColor)
			dc.DrawString(fmt.Sprintf("%d", slot.Start.Hour()), x, y+cellHeight+12)
		}

		dc.SetColor(slotColor(slot.Status))
		dc.DrawRoundedRectangle(x, y, cellWidth, cellHeight, cornerRadius)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode day grid: %w", err)
	}
	return buf.Bytes(), nil
}

func slotColor(status timeslot.SlotStatus) color.RGBA {
	switch status {
	case timeslot.SlotFree:
		return slotFreeColor
	case timeslot.SlotBusy:
		return slotBusyColor
	case timeslot.SlotPast:
		return slotPastColor
	default:
		return slotOtherColor
	}
}
