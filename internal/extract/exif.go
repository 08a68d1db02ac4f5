package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
)

// GoExif reads EXIF with github.com/rwcarlsen/goexif.
type GoExif struct{}

// NewGoExif creates an EXIF collaborator.
func NewGoExif() *GoExif { return &GoExif{} }

// ExtractMetadata returns the capture date (DateTimeOriginal, falling back
// to DateTime) as YYYY-MM-DD and the GPS position as "GPS: lat, lon".
// Images without EXIF yield empty metadata and an error.
func (GoExif) ExtractMetadata(ctx context.Context, imagePath string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return Metadata{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("decode exif: %w", err)
	}

	var md Metadata
	if d := captureDate(x); d != "" {
		md.Date = &d
	}
	if lat, lon, err := x.LatLong(); err == nil {
		loc := formatGPS(lat, lon)
		md.Location = &loc
	}
	return md, nil
}

// captureDate reads the date part of an EXIF "YYYY:MM:DD HH:MM:SS" value.
func captureDate(x *exif.Exif) string {
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if d := NormalizeDate(s); d != "" {
			return d
		}
	}
	return ""
}

// NormalizeDate converts an EXIF date-time ("2024:07:04 15:30:00") to
// "2024-07-04". The value is not checked against a calendar. Input without
// a recognizable date part yields "".
func NormalizeDate(s string) string {
	if len(s) < 10 {
		return ""
	}
	d := []byte(s[:10])
	for i, c := range d {
		switch i {
		case 4, 7:
			if c != ':' && c != '-' {
				return ""
			}
			d[i] = '-'
		default:
			if c < '0' || c > '9' {
				return ""
			}
		}
	}
	return string(d)
}

func formatGPS(lat, lon float64) string {
	return "GPS: " + strconv.FormatFloat(lat, 'f', 6, 64) + ", " + strconv.FormatFloat(lon, 'f', 6, 64)
}
