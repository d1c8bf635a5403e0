package failprop

func Execute() bool {
	panic("proposal body failed")
}
