// Package main provides localization for the framepeek CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Decode one frame of a video and show it in a window.": "動画の1フレームをデコードしてウィンドウに表示します。",
		"framepeek version %s":                                 "framepeek バージョン %s",

		// Arguments
		"Path or URL of the media source.":      "メディアソースのパスまたはURL。",
		"Index of the frame to show (0-based).": "表示するフレームの番号（0始まり）。",

		// Flags
		"YAML configuration file.":                               "YAML設定ファイル。",
		"Frame acceptance policy after the seek (first, exact).": "シーク後に採用するフレームの方針（first, exact）。",
		"Skip decoding the whole source before seeking.":         "シーク前の全体デコードを省略します。",
		"Window width in pixels.":                                "ウィンドウの幅（ピクセル）。",
		"Window height in pixels.":                               "ウィンドウの高さ（ピクセル）。",
		"Window title.":                                          "ウィンドウのタイトル。",
		"Log level (debug, info, warn, error).":                  "ログレベル（debug, info, warn, error）。",
		"Suppress all log output.":                               "全てのログ出力を抑制します。",
		"Show version information.":                              "バージョン情報を表示します。",
		"Show context-sensitive help.":                           "ヘルプを表示します。",

		// Runtime messages
		"Error: %s": "エラー: %s",
		"Showed frame %d (%dx%d %s) for %d iterations": "フレーム %d (%dx%d %s) を %d 回表示しました",
	})
}
