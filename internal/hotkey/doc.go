// Package hotkey implements the clipboard translation that runs when the
// global shortcut fires: read the clipboard, translate, write the result
// back and report progress through a Notifier.
//
// Registering the shortcut with the desktop is left to the shell; this
// package only validates accelerator strings before they are stored.
package hotkey
