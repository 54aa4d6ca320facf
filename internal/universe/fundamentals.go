package universe

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// MarketCapFromSnapshot extracts the MKTCAP ratio from a fundamentals
// ReportSnapshot XML document. The broker reports it in millions; callers
// scale it. Returns false when the field is absent or unparseable.
func MarketCapFromSnapshot(xmlData string) (float64, bool) {
	decoder := xml.NewDecoder(strings.NewReader(xmlData))
	inMktCap := false
	for {
		token, err := decoder.Token()
		if err != nil {
			return 0, false
		}
		switch t := token.(type) {
		case xml.StartElement:
			inMktCap = t.Name.Local == "Ratio" && attrValue(t, "FieldName") == "MKTCAP"
		case xml.CharData:
			if !inMktCap {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return 0, false
			}
			return value, true
		case xml.EndElement:
			inMktCap = false
		}
	}
}

// FloatSharesFromSnapshot extracts the TotalFloat attribute of the SharesOut
// element from a fundamentals ReportSnapshot XML document.
func FloatSharesFromSnapshot(xmlData string) (float64, bool) {
	decoder := xml.NewDecoder(strings.NewReader(xmlData))
	for {
		token, err := decoder.Token()
		if err != nil {
			return 0, false
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "SharesOut" {
			continue
		}
		raw := attrValue(start, "TotalFloat")
		if raw == "" {
			return 0, false
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
}

func attrValue(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
