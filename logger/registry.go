package logger

import "sync"

// named maps component names to loggers installed with Register.
var named sync.Map

// Register installs l as the logger returned by Get(name).
func Register(name string, l *Logger) { named.Store(name, l) }

// Unregister removes the logger installed for name.
func Unregister(name string) { named.Delete(name) }

// Get returns the logger registered for name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
