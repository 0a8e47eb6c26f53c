package dfxml

import (
	"encoding/xml"
	"errors"
	"io"
)

// ReadReport decodes a partition report written by Writer, returning its
// source description and its volumes in document order.
func ReadReport(r io.Reader) (Source, []Volume, error) {
	dec := xml.NewDecoder(r)

	var (
		source  Source
		volumes []Volume
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Source{}, nil, err
		}

		startElem, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch startElem.Name.Local {
		case "source":
			if err := dec.DecodeElement(&source, &startElem); err != nil {
				return Source{}, nil, err
			}
		case "volume":
			var v Volume
			if err := dec.DecodeElement(&v, &startElem); err != nil {
				return Source{}, nil, err
			}
			volumes = append(volumes, v)
		}
	}
	return source, volumes, nil
}
