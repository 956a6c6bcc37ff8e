package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/image-reduce-mcp/internal/imaging"
)

// call sends a tools/call through handleRequest.
func call(t *testing.T, s *Server, id interface{}, tool string, args map[string]interface{}) *Response {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{"name": tool, "arguments": args})
	if err != nil {
		t.Fatal(err)
	}
	resp := s.handleRequest(&Request{JSONRPC: "2.0", ID: id, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatalf("%s: no response", tool)
	}
	if resp.ID != id {
		t.Errorf("%s: response ID %v, want %v", tool, resp.ID, id)
	}
	return resp
}

// imageFromResponse unpacks the text content of a successful tool call.
func imageFromResponse(t *testing.T, resp *Response) (*imaging.ImageResult, image.Image) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("content: got %v", content)
	}
	var res imaging.ImageResult
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &res); err != nil {
		t.Fatalf("tool text is not an image result: %v", err)
	}
	return decodeImageResult(t, &res)
}

func writeGradient(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / (w - 1)), uint8(y * 255 / (h - 1)), uint8((x + y) * 8), 255})
		}
	}
	path := filepath.Join(t.TempDir(), "gradient.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServe_Session(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":"p","method":"ping"}`,
		`{"jsonrpc":"2.0","id":4,"method":"resources/list"}`,
		`not json`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := New().Serve(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	type reply struct {
		ID     interface{}     `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  *ResponseError  `json:"error"`
	}
	var got []reply
	dec := json.NewDecoder(&out)
	for {
		var r reply
		if err := dec.Decode(&r); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("output is not line-delimited JSON: %v", err)
		}
		got = append(got, r)
	}

	want := []struct {
		id   interface{}
		code int
	}{
		{float64(1), 0},
		{float64(2), 0},
		{"p", 0},
		{float64(4), codeMethodNotFound},
		{nil, codeParseError},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d replies, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].ID != w.id {
			t.Errorf("reply %d: id %v, want %v", i, got[i].ID, w.id)
		}
		switch {
		case w.code == 0 && got[i].Error != nil:
			t.Errorf("reply %d: unexpected error %+v", i, got[i].Error)
		case w.code != 0 && (got[i].Error == nil || got[i].Error.Code != w.code):
			t.Errorf("reply %d: error %+v, want code %d", i, got[i].Error, w.code)
		}
	}
}

func TestServe_ReturnsWhenCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().Serve(ctx, r, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve kept blocking on a read after cancel")
	}
}

func TestHandleRequest_Methods(t *testing.T) {
	tests := []struct {
		method   string
		wantNil  bool
		wantCode int
	}{
		{"initialize", false, 0},
		{"notifications/initialized", true, 0},
		{"tools/list", false, 0},
		{"ping", false, 0},
		{"prompts/list", false, codeMethodNotFound},
		{"", false, codeMethodNotFound},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&Request{JSONRPC: "2.0", ID: 7, Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("got %+v, want no response", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("got no response")
			}
			if resp.JSONRPC != "2.0" || resp.ID != 7 {
				t.Errorf("envelope: got %s/%v", resp.JSONRPC, resp.ID)
			}
			if tt.wantCode == 0 {
				if resp.Error != nil || resp.Result == nil {
					t.Errorf("got error %+v, result %v", resp.Error, resp.Result)
				}
				return
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New()
	s.Version = "1.2.3"

	resp := s.handleRequest(&Request{JSONRPC: "2.0", ID: "init", Method: "initialize"})
	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != ProtocolVersion {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	if _, ok := result["capabilities"].(map[string]interface{})["tools"]; !ok {
		t.Error("capabilities should advertise tools")
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != Name || info["version"] != "1.2.3" {
		t.Errorf("serverInfo: got %v", info)
	}
}

func TestHandleRequest_ToolsListNamesEveryTool(t *testing.T) {
	resp := New().handleRequest(&Request{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	tools := resp.Result.(map[string]interface{})["tools"].([]Tool)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)

	want := []string{
		"image_convert",
		"image_crop",
		"image_crop_quadrant",
		"image_dimensions",
		"image_dominant_colors",
		"image_fill",
		"image_load",
		"image_new",
		"image_palette",
		"image_paste",
		"image_resize",
		"image_rotate",
		"image_sample_color",
		"image_sample_colors_multi",
		"image_transpose",
	}
	if !slices.Equal(names, want) {
		t.Errorf("tools:\n got %v\nwant %v", names, want)
	}
}

func TestHandleRequest_ConvertAdaptivePalette(t *testing.T) {
	s := New()
	path := writeGradient(t, 24, 16)

	res, img := imageFromResponse(t, call(t, s, 11, "image_convert", map[string]interface{}{
		"path":    path,
		"mode":    "P",
		"palette": "ADAPTIVE",
		"colors":  4,
		"dither":  "NONE",
	}))
	if res.Width != 24 || res.Height != 16 || res.Mode != "RGB" {
		t.Errorf("result: got %dx%d %s, want 24x16 RGB", res.Width, res.Height, res.Mode)
	}

	seen := map[[3]uint8]bool{}
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			seen[rgbAt(img, x, y)] = true
		}
	}
	if len(seen) < 2 || len(seen) > 4 {
		t.Errorf("got %d distinct colors, want 2 to 4", len(seen))
	}
}

func TestHandleRequest_ToolErrors(t *testing.T) {
	path := writeGradient(t, 4, 4)

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantData string
	}{
		{"bad matrix", "image_convert", map[string]interface{}{"path": path, "mode": "RGB", "matrix": []float64{1, 2, 3}}, "4-tuple or 12-tuple"},
		{"matrix to P", "image_convert", map[string]interface{}{"path": path, "mode": "P", "matrix": []float64{1, 0, 0, 0}}, "matrix conversion to mode"},
		{"lowercase palette", "image_convert", map[string]interface{}{"path": path, "mode": "P", "palette": "web"}, "WEB or ADAPTIVE"},
		{"unknown mode", "image_convert", map[string]interface{}{"path": path, "mode": "CMYK"}, "unsupported conversion mode"},
		{"unknown tool", "image_blur", map[string]interface{}{"path": path}, "unknown tool: image_blur"},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, s, tt.name, tt.tool, tt.args)
			if resp.Error == nil || resp.Error.Code != codeToolFailed {
				t.Fatalf("got %+v, want code %d", resp.Error, codeToolFailed)
			}
			if data, _ := resp.Error.Data.(string); !strings.Contains(data, tt.wantData) {
				t.Errorf("data %q should contain %q", data, tt.wantData)
			}
		})
	}
}

func TestHandleRequest_ToolsCallInvalidParams(t *testing.T) {
	resp := New().handleRequest(&Request{JSONRPC: "2.0", ID: 3, Method: "tools/call", Params: json.RawMessage(`[1,2]`)})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("got %+v, want code %d", resp.Error, codeInvalidParams)
	}
}

func TestHandleRequest_PasteThroughHalfMask(t *testing.T) {
	s := New()
	dst := createTestImageFile(t, 6, 6, color.RGBA{0, 0, 0, 255})
	defer os.Remove(dst)
	src := createTestImageFile(t, 2, 2, color.RGBA{255, 255, 255, 255})
	defer os.Remove(src)
	mask := createTestImageFile(t, 2, 2, color.RGBA{128, 128, 128, 255})
	defer os.Remove(mask)

	res, img := imageFromResponse(t, call(t, s, 21, "image_paste", map[string]interface{}{
		"path":        dst,
		"source_path": src,
		"x":           1,
		"y":           1,
		"mask_path":   mask,
	}))
	if res.Mode != "RGB" {
		t.Errorf("mode: got %s, want RGB", res.Mode)
	}

	tests := []struct {
		x, y int
		want [3]uint8
	}{
		{0, 0, [3]uint8{0, 0, 0}},
		{1, 1, [3]uint8{128, 128, 128}},
		{2, 2, [3]uint8{128, 128, 128}},
		{3, 3, [3]uint8{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := rgbAt(img, tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
