package bridge

import (
	"fmt"
	"strconv"
)

// TextClient forwards composition output to the focused client of the shim.
type TextClient struct {
	client *Client
}

func NewTextClient(client *Client) *TextClient {
	return &TextClient{client: client}
}

func (t *TextClient) InsertText(text string) error {
	return t.client.WriteLine(kindInsert, strconv.Quote(text))
}

func (t *TextClient) SetMarkedText(text string, caret int) error {
	return t.client.WriteLine(kindMark, fmt.Sprintf("%s,%d", strconv.Quote(text), caret))
}

func (t *TextClient) ClearMarkedText() error {
	return t.client.WriteLine(kindUnmark, "")
}
