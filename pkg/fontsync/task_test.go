package fontsync

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		proxy string
		want  Task
	}{
		{
			name: "ttf",
			url:  "https://x/y/a.ttf",
			want: Task{Font: "f", URL: "https://x/y/a.ttf", Name: "a.ttf", Ext: ".ttf", Dest: filepath.Join("f", "a.ttf")},
		},
		{
			name:  "proxy is concatenated",
			url:   "https://host/f.zip",
			proxy: "https://mirror.ghproxy.com/",
			want:  Task{Font: "f", URL: "https://mirror.ghproxy.com/https://host/f.zip", Name: "f.zip", Ext: ".zip", Dest: filepath.Join("f", "f.zip")},
		},
		{
			name: "query is ignored",
			url:  "https://x/dl/a.ttf?raw=true",
			want: Task{Font: "f", URL: "https://x/dl/a.ttf?raw=true", Name: "a.ttf", Ext: ".ttf", Dest: filepath.Join("f", "a.ttf")},
		},
		{
			name: "extension is case sensitive",
			url:  "https://x/A.TTF",
			want: Task{Font: "f", URL: "https://x/A.TTF", Name: "A.TTF", Ext: ".TTF", Dest: filepath.Join("f", "A.TTF")},
		},
		{
			name: "no file name",
			url:  "https://x/dir/",
			want: Task{Font: "f", URL: "https://x/dir/"},
		},
		{
			name: "dotfile has no extension",
			url:  "https://x/fonts/.ttf",
			want: Task{Font: "f", URL: "https://x/fonts/.ttf", Name: ".ttf", Dest: filepath.Join("f", ".ttf")},
		},
		{
			name: "leading dot keeps last extension",
			url:  "https://x/.hidden.ttf",
			want: Task{Font: "f", URL: "https://x/.hidden.ttf", Name: ".hidden.ttf", Ext: ".ttf", Dest: filepath.Join("f", ".hidden.ttf")},
		},
		{
			name: "escaped name",
			url:  "https://x/My%20Font.ttf",
			want: Task{Font: "f", URL: "https://x/My%20Font.ttf", Name: "My Font.ttf", Ext: ".ttf", Dest: filepath.Join("f", "My Font.ttf")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTask("f", tt.url, tt.proxy))
		})
	}
}
