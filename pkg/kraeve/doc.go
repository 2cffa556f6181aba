// SPDX-License-Identifier: MPL-2.0

// Package kraeve registers the host application under its manifest name and
// composes the import interceptor, so that code can be imported by name:
//
//	k, err := kraeve.New(ctx)
//	if err != nil {
//		return err
//	}
//	mod, err := k.Load(ctx, "my-app/lib/util.js", "")
//
// New discovers the application root by walking up from the executable's
// directory until a package.json is found. Further pseudo-modules are added
// with Set and SetRelative. Default returns a process-wide instance built on
// first use.
package kraeve
