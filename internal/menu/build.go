package menu

import (
	"fmt"

	wailsmenu "github.com/wailsapp/wails/v2/pkg/menu"
)

// Build 由菜单树生成 Wails 应用菜单。任何一项构建失败都返回错误，
// 调用方应终止启动，不做部分菜单降级。
//
// 不使用 Wails 的角色菜单（AppMenu/EditMenu）：macOS 上 AppMenu 的退出项走
// OnBeforeClose，会被最小化到托盘拦截。退出只经由 quit_app。
func Build(tree []Submenu, onClick func(ID)) (*wailsmenu.Menu, error) {
	appMenu := wailsmenu.NewMenu()

	seen := make(map[ID]bool)
	for _, sub := range tree {
		if sub.Label == "" {
			return nil, fmt.Errorf("子菜单缺少标题")
		}
		submenu := appMenu.AddSubmenu(sub.Label)

		for _, item := range sub.Items {
			if _, ok := idNames[item.ID]; !ok {
				return nil, fmt.Errorf("子菜单 %s: 未知菜单项 %s", sub.Label, item.ID)
			}
			if seen[item.ID] {
				return nil, fmt.Errorf("子菜单 %s: 菜单项 %s 重复", sub.Label, item.ID)
			}
			seen[item.ID] = true

			acc, err := ParseAccelerator(item.Accelerator)
			if err != nil {
				return nil, fmt.Errorf("菜单项 %s: %w", item.ID, err)
			}

			id := item.ID
			mi := submenu.AddText(item.Label, acc, func(_ *wailsmenu.CallbackData) {
				if onClick != nil {
					onClick(id)
				}
			})
			mi.Disabled = !item.Enabled
		}
	}

	return appMenu, nil
}
