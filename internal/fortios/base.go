package fortios

import (
	"strings"

	"github.com/Flarenzy/fortimigrate/internal/settings"
)

const bannerMessage = `admin "pre_admin-disclaimer-text"`

// SystemGlobalBlock returns nil when nothing global is configured.
func SystemGlobalBlock(g settings.GlobalSettings, banner settings.BannerSettings) []string {
	if g.Hostname == "" && g.GUITheme == "" && bannerText(banner) == "" {
		return nil
	}
	w := &writer{}
	w.config("system global")
	if g.Hostname != "" {
		w.set("hostname", quote(g.Hostname))
	}
	if g.GUITheme != "" {
		w.set("gui-theme", g.GUITheme)
	}
	if bannerText(banner) != "" {
		w.set("pre-login-banner", "enable")
	}
	w.end()
	return w.lines
}

func SystemDNSBlock(s settings.SystemDNSSettings) []string {
	if s == (settings.SystemDNSSettings{}) {
		return nil
	}
	w := &writer{}
	w.config("system dns")
	if s.Primary != "" {
		w.set("primary", s.Primary)
	}
	if s.Secondary != "" {
		w.set("secondary", s.Secondary)
	}
	if s.Domain != "" {
		w.set("domain", quote(s.Domain))
	}
	w.end()
	return w.lines
}

// CentralManagementBlock registers the device with a FortiManager.
func CentralManagementBlock(s settings.FortiManagerSettings) []string {
	if s.Server == "" {
		return nil
	}
	w := &writer{}
	w.config("system central-management")
	w.set("type", "fortimanager")
	w.set("fmg", quote(s.Server))
	w.end()
	return w.lines
}

func FortiAnalyzerBlock(s settings.FortiAnalyzerSettings) []string {
	if s.Server == "" {
		return nil
	}
	w := &writer{}
	w.config("log fortianalyzer setting")
	w.set("status", "enable")
	w.set("server", quote(s.Server))
	if s.Serial != "" {
		w.set("serial", quote(s.Serial))
	}
	w.set("upload-option", "realtime")
	w.end()
	return w.lines
}

func AdminBlock(users []settings.UserSettings) []string {
	if len(users) == 0 {
		return nil
	}
	w := &writer{}
	w.config("system admin")
	for _, u := range users {
		w.edit(quote(u.Name))
		w.set("accprofile", quote(u.Profile))
		w.set("vdom", quote("root"))
		w.set("password", quote(u.Password))
		w.next()
	}
	w.end()
	return w.lines
}

func TACACSBlock(s settings.TACACSSettings) []string {
	if s.Server == "" {
		return nil
	}
	w := &writer{}
	w.config("user tacacs+")
	w.edit(quote(s.Name))
	w.set("server", quote(s.Server))
	w.set("key", quote(s.Key))
	w.set("authen-type", "auto")
	w.next()
	w.end()
	return w.lines
}

// BannerBlock sets the pre-login disclaimer. A multi-line banner stays one
// quoted value spanning several lines.
func BannerBlock(s settings.BannerSettings) []string {
	text := bannerText(s)
	if text == "" {
		return nil
	}
	parts := strings.Split(quote(text), "\n")
	w := &writer{}
	w.config("system replacemsg " + bannerMessage)
	w.printf("set buffer %s", parts[0])
	w.raw(parts[1:])
	w.end()
	return w.lines
}

func bannerText(s settings.BannerSettings) string {
	return strings.Trim(s.Text, "\n")
}

func NetflowBlock(s settings.NetflowSettings) []string {
	if s.CollectorIP == "" {
		return nil
	}
	w := &writer{}
	w.config("system netflow")
	w.set("collector-ip", s.CollectorIP)
	w.set("collector-port", s.CollectorPort)
	w.end()
	return w.lines
}

func wanEntry(s settings.InterfaceSettings) []string {
	if s.WANAddress == "" {
		return nil
	}
	w := &writer{depth: 1}
	w.edit(quote(s.WANName))
	if s.WANDescription != "" {
		w.set("description", quote(s.WANDescription))
	}
	w.printf("set ip %s %s", s.WANAddress, s.WANMask)
	w.set("allowaccess", "ping")
	w.set("role", "wan")
	w.next()
	return w.lines
}

func loopbackEntry(s settings.InterfaceSettings) []string {
	if s.LoopbackIP == "" {
		return nil
	}
	w := &writer{depth: 1}
	w.edit(quote(s.LoopbackName))
	w.set("vdom", quote("root"))
	if s.LoopbackDescription != "" {
		w.set("description", quote(s.LoopbackDescription))
	}
	w.printf("set ip %s 255.255.255.255", s.LoopbackIP)
	w.set("allowaccess", "ping")
	w.set("type", "loopback")
	w.next()
	return w.lines
}

// StaticRouteBlock installs the default route through the WAN gateway.
func StaticRouteBlock(s settings.InterfaceSettings) []string {
	if s.WANGateway == "" {
		return nil
	}
	w := &writer{}
	w.config("router static")
	w.edit(1)
	w.set("gateway", s.WANGateway)
	w.set("device", quote(s.WANName))
	w.next()
	w.end()
	return w.lines
}

// IPsecBlocks builds the hub tunnel over the WAN interface, phase 1 then
// phase 2.
func IPsecBlocks(s settings.IPsecSettings, wan string) []string {
	if s.RemoteGateway == "" {
		return nil
	}
	w := &writer{}
	w.config("vpn ipsec phase1-interface")
	w.edit(quote(s.TunnelName))
	w.set("interface", quote(wan))
	w.set("ike-version", 2)
	w.set("peertype", "any")
	w.set("net-device", "enable")
	w.set("remote-gw", s.RemoteGateway)
	w.set("psksecret", quote(s.Secret))
	w.next()
	w.end()

	w.config("vpn ipsec phase2-interface")
	w.edit(quote(s.TunnelName))
	w.set("phase1name", quote(s.TunnelName))
	w.next()
	w.end()
	return w.lines
}
