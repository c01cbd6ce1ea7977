// Package menu 构建应用菜单栏（文件/编辑/视图/帮助）并分发菜单事件。
package menu

import "fmt"

// ID 菜单项标识，仅用作分发键
type ID int

const (
	New ID = iota + 1
	Open
	Save
	SaveAs
	QuitApp
	Undo
	Redo
	Cut
	Copy
	Paste
	ZoomIn
	ZoomOut
	ZoomReset
	About
)

var idNames = map[ID]string{
	New:       "new",
	Open:      "open",
	Save:      "save",
	SaveAs:    "save_as",
	QuitApp:   "quit_app",
	Undo:      "undo",
	Redo:      "redo",
	Cut:       "cut",
	Copy:      "copy",
	Paste:     "paste",
	ZoomIn:    "zoom_in",
	ZoomOut:   "zoom_out",
	ZoomReset: "zoom_reset",
	About:     "about",
}

// String 返回稳定的字符串标识（即 menu-action 事件的载荷）
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// ParseID 由字符串标识解析 ID
func ParseID(s string) (ID, bool) {
	for id, name := range idNames {
		if name == s {
			return id, true
		}
	}
	return 0, false
}

// Item 菜单项，构建后不可变
type Item struct {
	ID          ID
	Label       string
	Enabled     bool
	Accelerator string // 例如 "CmdOrCtrl+Shift+Z"，空表示无快捷键
}

// Submenu 顶层子菜单
type Submenu struct {
	Label string
	Items []Item
}

// Default 返回应用的固定菜单树
func Default() []Submenu {
	return []Submenu{
		{
			Label: "文件",
			Items: []Item{
				{ID: New, Label: "新建", Enabled: true, Accelerator: "CmdOrCtrl+N"},
				{ID: Open, Label: "打开", Enabled: true, Accelerator: "CmdOrCtrl+O"},
				{ID: Save, Label: "保存", Enabled: true, Accelerator: "CmdOrCtrl+S"},
				{ID: SaveAs, Label: "另存为", Enabled: true},
				{ID: QuitApp, Label: "退出", Enabled: true, Accelerator: "CmdOrCtrl+Q"},
			},
		},
		{
			Label: "编辑",
			Items: []Item{
				{ID: Undo, Label: "撤销", Enabled: true, Accelerator: "CmdOrCtrl+Z"},
				{ID: Redo, Label: "重做", Enabled: true, Accelerator: "CmdOrCtrl+Shift+Z"},
				{ID: Cut, Label: "剪切", Enabled: true, Accelerator: "CmdOrCtrl+X"},
				{ID: Copy, Label: "复制", Enabled: true, Accelerator: "CmdOrCtrl+C"},
				{ID: Paste, Label: "粘贴", Enabled: true, Accelerator: "CmdOrCtrl+V"},
			},
		},
		{
			Label: "视图",
			Items: []Item{
				{ID: ZoomIn, Label: "放大", Enabled: true, Accelerator: "CmdOrCtrl+Plus"},
				{ID: ZoomOut, Label: "缩小", Enabled: true, Accelerator: "CmdOrCtrl+-"},
				{ID: ZoomReset, Label: "重置缩放", Enabled: true, Accelerator: "CmdOrCtrl+0"},
			},
		},
		{
			Label: "帮助",
			Items: []Item{
				{ID: About, Label: "关于", Enabled: true},
			},
		},
	}
}
