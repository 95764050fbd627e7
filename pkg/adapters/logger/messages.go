package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages
		"Starting pipeline":                                  "パイプラインを開始します",
		"Pipeline completed successfully":                    "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":                      "中断されました。シャットダウン中...",
		"Failed to set up %s: %s":                            "%s の準備に失敗しました: %s",
		"Failed to locate frame %d: %s":                      "フレーム %d の検索に失敗しました: %s",
		"Failed to open window: %s":                          "ウィンドウを開けませんでした: %s",
		"Failed to close window: %s":                         "ウィンドウを閉じられませんでした: %s",
		"Frame %d is not available, showing an empty window": "フレーム %d が見つからないため空のウィンドウを表示します",

		// MP4 pre-flight
		"Not an MP4 file, skipping pre-flight":          "MP4ファイルではないため事前検査をスキップします",
		"Pre-flight probe skipped: %s":                  "事前検査をスキップしました: %s",
		"MP4 track: %s %dx%d, %d samples, timescale %d": "MP4トラック: %s %dx%d, %d サンプル, タイムスケール %d",
		"Frame %d is past the last sample (%d samples)": "フレーム %d は最終サンプルを超えています (%d サンプル)",
		"Nearest keyframe at or before frame %d: %d":    "フレーム %d 以前の直近のキーフレーム: %d",

		// Session
		"Opening %s": "%s を開いています",
		"Selected video stream %d (%dx%d, time base %s)": "映像ストリーム %d を選択しました (%dx%d, タイムベース %s)",
		"No video stream found in %s":                    "%s に映像ストリームが見つかりません",
		"Unsupported codec %s":                           "未対応のコーデックです: %s",
		"Opened %s decoder":                              "%s デコーダを開きました",

		// Locate stage
		"Warm scan started":                                   "ウォームスキャンを開始します",
		"Warm scan finished after %d packets":                 "ウォームスキャンが %d パケットで完了しました",
		"Seeking to frame %d (timestamp %d)":                  "フレーム %d へシーク中 (タイムスタンプ %d)",
		"Seek failed, decoding from the current position: %s": "シークに失敗しました。現在位置からデコードします: %s",
		"End of input, draining decoder":                      "入力の終端です。デコーダを排出しています",
		"Frame %d not found after %d packets":                 "フレーム %d が見つかりません (%d パケット読み込み済み)",
		"Decoded frame %dx%d %s (pts %d)":                     "フレームをデコードしました %dx%d %s (pts %d)",

		// Present stage
		"Created %s texture %dx%d":      "%s テクスチャを作成しました %dx%d",
		"Failed to adapt frame: %s":     "フレームの変換に失敗しました: %s",
		"Failed to destroy texture: %s": "テクスチャを破棄できませんでした: %s",

		// Display stage
		"Display loop started":                         "表示ループを開始します",
		"Display loop finished after %d iterations":    "表示ループが %d 回で終了しました",
		"Display loop interrupted after %d iterations": "表示ループが %d 回で中断されました",
		"Render clear failed: %s":                      "描画のクリアに失敗しました: %s",
		"Texture upload failed: %s":                    "テクスチャの転送に失敗しました: %s",
		"Render copy failed: %s":                       "描画のコピーに失敗しました: %s",

		// Diagnostics
		"Error: %s at %s:%d (%s) [%d]":   "エラー: %s (%s:%d, %s) [%d]",
		"%s failed to allocate at %s:%d": "%s の確保に失敗しました (%s:%d)",
	})
}
