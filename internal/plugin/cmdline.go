package plugin

// Switch is a single host command line switch
type Switch struct {
	Name  string
	Value string
}

// CommandLine collects switches for launching the host process
type CommandLine struct {
	switches []Switch
}

// AppendSwitch implements Host
func (c *CommandLine) AppendSwitch(name, value string) {
	c.switches = append(c.switches, Switch{Name: name, Value: value})
}

// Switches returns the collected switches in insertion order
func (c *CommandLine) Switches() []Switch {
	return c.switches
}

// Has reports whether a switch with name was appended
func (c *CommandLine) Has(name string) bool {
	for _, s := range c.switches {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Args renders the switches as --name or --name=value arguments
func (c *CommandLine) Args() []string {
	args := make([]string, 0, len(c.switches))
	for _, s := range c.switches {
		if s.Value == "" {
			args = append(args, "--"+s.Name)
			continue
		}
		args = append(args, "--"+s.Name+"="+s.Value)
	}
	return args
}
