// Package views defines the portfolio's route table and renders its pages.
//
// Routes returns the six navigable routes. Home is built eagerly; every
// other view is produced by a loader that decodes its content document on
// first navigation. View titles are message IDs that the shell localises.
//
// Page bodies read the request's localizer and navigator from the context:
//
//	ctx = i18n.WithLocalizer(ctx, loc)
//	ctx = views.WithNavigator(ctx, table)
//	body := match.View.Page(ctx)
package views
