package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

func (c *Client) dumpResponseBody(resp *Response) {
	if c == nil || !c.Debug || resp == nil {
		return
	}
	title := fmt.Sprintf("UPSTREAM RESPONSE BODY provider=%s", c.Provider.Name())
	if resp.RequestID != "" {
		title += " request_id=" + resp.RequestID
	}
	c.writeDebugDumpBlock(title, prettyJSON(resp.Body))
}

func (c *Client) writeDebugDumpBlock(title string, data []byte) {
	if c == nil {
		return
	}
	c.dumpMu.Lock()
	defer c.dumpMu.Unlock()

	w := c.dumpWriter()
	title = strings.TrimSpace(title)
	var buf bytes.Buffer
	buf.WriteString("===== " + title + " BEGIN =====\n")
	if len(data) > 0 {
		buf.Write(data)
		if data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.WriteString("===== " + title + " END =====\n")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("upstream.dump.write.failed", "title", title, "error", err)
	}
}

// prettyJSON indents valid JSON and returns anything else unchanged.
func prettyJSON(data []byte) []byte {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return data
	}
	return out.Bytes()
}
