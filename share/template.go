package share

import (
	"fmt"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

type rate interface {
	Float() float64
	String() string
}

var (
	TemplateFuncMap = template.FuncMap{
		"fn": func(value interface{}) string {
			switch e := value.(type) {
			case float32:
				return humanize.CommafWithDigits(float64(e), 1)
			case float64:
				return humanize.CommafWithDigits(e, 1)
			case int:
				return humanize.Comma(int64(e))
			case int64:
				return humanize.Comma(e)
			case rate:
				if s := e.String(); s == "n/a" {
					return s
				}
				return humanize.CommafWithDigits(e.Float(), 1)
			}
			return ""
		},
		// milliseconds as m:ss.s
		"ms": func(value int64) string {
			d := time.Duration(value) * time.Millisecond
			m := int(d / time.Minute)
			s := float64(d%time.Minute) / float64(time.Second)
			return fmt.Sprintf("%d:%04.1f", m, s)
		},
	}
)
