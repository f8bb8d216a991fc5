/*
Package env turns a restored package into something a consumer's build can use.

A header-only package is compiled by whoever includes it, so the only thing a
consumer needs is the include path:

	e := env.New("/home/me/deps/wildcat-ws")
	flags := e.GetCompilerFlags()
	fmt.Println(flags.String()) // -I/home/me/deps/wildcat-ws/include

Headers lists the headers the package provides, relative to its include
directories, which is what an #include line names.
*/
package env
