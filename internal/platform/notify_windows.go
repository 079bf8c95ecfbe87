//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Notify shows a toast through PowerShell and the WinRT notification manager.
func Notify(title, body string, opts Options) error {
	icon := strings.TrimSpace(opts.IconPath)
	tmpl := "ToastText02"
	setImage := ""
	if icon != "" {
		tmpl = "ToastImageAndText02"
		setImage = fmt.Sprintf(`$template.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	script := `[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; ` +
		fmt.Sprintf(`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s); `, tmpl) +
		`$texts = $template.GetElementsByTagName("text"); ` +
		fmt.Sprintf(`$texts.Item(0).AppendChild($template.CreateTextNode(%s)) > $null; `, psQuote(title)) +
		fmt.Sprintf(`$texts.Item(1).AppendChild($template.CreateTextNode(%s)) > $null; `, psQuote(body)) +
		setImage +
		`$toast = [Windows.UI.Notifications.ToastNotification]::new($template); ` +
		fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast);`, psQuote(AppName))
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
