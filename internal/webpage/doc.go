// Package webpage turns a URL typed into the translator into the page
// content worth translating: it fetches the page, selects a subtree with a
// CSS selector and returns it as text or HTML.
package webpage
