// SPDX-License-Identifier: MIT
package lexer

import "fmt"

type (
	// ItemID identifies the class of a lexed Item.
	ItemID int

	// Item is a lexed outline token.
	Item struct {
		Err error
		Val []byte // Runes forming the token.
		ID  ItemID
	}
)

// Item classes, the zero value is unused.
const (
	_ ItemID = iota
	ItemError     // Lexing failure, ends the stream.
	ItemSplitter  // References the splitter.
	ItemEOF       // End of the source.
	ItemValue     // Outline key.
	ItemEndMarker // Closes a value's children.
)

var itemNames = map[ItemID]string{
	ItemError:     "error",
	ItemSplitter:  "splitter",
	ItemEOF:       "eof",
	ItemValue:     "value",
	ItemEndMarker: "end",
}

// String is the fmt.Stringer implementation for ItemID.
func (i ItemID) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}

	return fmt.Sprintf("item(%d)", int(i))
}

// String is the fmt.Stringer implementation for Item.
func (i Item) String() string {
	if i.ID == ItemError {
		return fmt.Sprintf("%s: %v", i.ID, i.Err)
	}

	return fmt.Sprintf("%s %q", i.ID, i.Val)
}
