package menu

import (
	"fmt"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

var modifierNames = map[string]keys.Modifier{
	"cmdorctrl":     keys.CmdOrCtrlKey,
	"commandorctrl": keys.CmdOrCtrlKey,
	"cmd":           keys.CmdOrCtrlKey,
	"command":       keys.CmdOrCtrlKey,
	"ctrl":          keys.ControlKey,
	"control":       keys.ControlKey,
	"alt":           keys.OptionOrAltKey,
	"option":        keys.OptionOrAltKey,
	"shift":         keys.ShiftKey,
}

var keyAliases = map[string]string{
	"plus":  "+",
	"minus": "-",
	"enter": "return",
	"esc":   "escape",
}

// ParseAccelerator 将 "CmdOrCtrl+Shift+Z" 形式的快捷键转换为 Wails 快捷键。
// 空字符串返回 nil。最后一段是按键，其余为修饰键。
func ParseAccelerator(s string) (*keys.Accelerator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var parts []string
	if strings.HasSuffix(s, "++") {
		// "CmdOrCtrl++"：按键本身就是 '+'
		parts = append(strings.Split(strings.TrimSuffix(s, "++"), "+"), "+")
	} else {
		parts = strings.Split(s, "+")
	}

	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	if key == "" {
		return nil, fmt.Errorf("无效的快捷键 %q: 缺少按键", s)
	}
	if _, isModifier := modifierNames[key]; isModifier {
		return nil, fmt.Errorf("无效的快捷键 %q: 缺少按键", s)
	}

	acc := &keys.Accelerator{Key: key}
	seen := make(map[keys.Modifier]bool)
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return nil, fmt.Errorf("无效的快捷键 %q: 未知修饰键 %q", s, part)
		}
		if seen[mod] {
			continue
		}
		seen[mod] = true
		acc.Modifiers = append(acc.Modifiers, mod)
	}

	return acc, nil
}
