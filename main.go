package main

import "recipe-blog-cms/cmd"

func main() {
	cmd.Execute()
}
