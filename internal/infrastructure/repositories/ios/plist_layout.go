package ios

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	tagDict  = "dict"
	tagKey   = "key"
	tagPlist = "plist"

	selfClosing = "/>"
)

// plistEntry is the byte range of one key and its value inside the top-level dictionary.
type plistEntry struct {
	key        string
	keyStart   int
	valueStart int
	valueEnd   int
}

// plistLayout records where the top-level dictionary and its direct entries
// sit in the raw document.
type plistLayout struct {
	open       int // offset of '<' in <dict>
	openEnd    int // offset just past <dict> or <dict/>
	close      int // offset of '<' in </dict>, or openEnd when self-closed
	selfClosed bool
	entries    []plistEntry
}

func (l plistLayout) find(key string) (plistEntry, bool) {
	for _, e := range l.entries {
		if e.key == key {
			return e, true
		}
	}
	return plistEntry{}, false
}

// scanPlistLayout walks the XML tokens of raw and locates the direct children
// of the dictionary held by the plist element.
func scanPlistLayout(raw []byte) (plistLayout, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))

	var (
		layout    plistLayout
		depth     int
		dictDepth int
		inKey     bool
		current   plistEntry
		keyText   []byte
	)
	for {
		offset := int(decoder.InputOffset())
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return layout, errors.New("no top-level <dict> element")
		}
		if err != nil {
			return layout, err
		}

		switch element := token.(type) {
		case xml.StartElement:
			depth++
			switch {
			case dictDepth == 0 && depth == 2 && element.Name.Local == tagDict:
				dictDepth = depth
				layout.open = offset
				layout.openEnd = int(decoder.InputOffset())
			case dictDepth == 0 && depth == 1 && element.Name.Local != tagPlist:
				return layout, fmt.Errorf("unexpected root element <%s>", element.Name.Local)
			case dictDepth != 0 && depth == dictDepth+1 && element.Name.Local == tagKey:
				inKey = true
				keyText = keyText[:0]
				current = plistEntry{keyStart: offset}
			case dictDepth != 0 && depth == dictDepth+1:
				current.valueStart = offset
			}
		case xml.CharData:
			if inKey {
				keyText = append(keyText, element...)
			}
		case xml.EndElement:
			switch {
			case dictDepth != 0 && depth == dictDepth:
				layout.close = offset
				layout.selfClosed = offset == layout.openEnd &&
					bytes.HasSuffix(raw[layout.open:layout.openEnd], []byte(selfClosing))
				return layout, nil
			case dictDepth != 0 && depth == dictDepth+1 && inKey:
				inKey = false
				current.key = string(keyText)
			case dictDepth != 0 && depth == dictDepth+1:
				current.valueEnd = int(decoder.InputOffset())
				layout.entries = append(layout.entries, current)
			}
			depth--
		}
	}
}
