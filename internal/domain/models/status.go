package models

type StatusLevel string

const (
	StatusLoading StatusLevel = "loading"
	StatusSuccess StatusLevel = "success"
	StatusWarning StatusLevel = "warning"
)

// Status is the single user-facing status indicator.
type Status struct {
	Level   StatusLevel `json:"level"`
	Message string      `json:"message"`
}

const (
	MessageLoading         = "データを読み込み中です..."
	MessageLive            = "最新のマーケットデータを表示中"
	MessageFallback        = "ライブデータを取得できませんでした。サンプルを表示しています。"
	MessageInitFailed      = "初期化に失敗したためサンプルデータを表示しています。"
	MessageHoldingsFailed  = "保有銘柄の取得に失敗しました。"
	MessageHoldingsUpdated = "保有銘柄を更新しました"
	MessageCreateFailed    = "銘柄の登録に失敗しました。入力内容を確認してください。"
	MessageUpdateFailed    = "メモの更新に失敗しました。"
	MessageDeleteFailed    = "銘柄の削除に失敗しました。"
	MessageDuplicateSymbol = "この銘柄はすでに登録されています。"
	MessageHoldingNotFound = "保有銘柄が見つかりません。"
)

// HoldingsState is a consistent read of the holdings surface.
type HoldingsState struct {
	Holdings   []Holding     `json:"holdings"`
	SelectedID *int64        `json:"selected_id"`
	Selected   *Holding      `json:"selected"`
	News       []NewsArticle `json:"news"`
	Alerts     []Alert       `json:"alerts"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
	Status     Status        `json:"status"`
	Version    uint64        `json:"version"`
}
